package service

import (
	"strings"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
)

// fallbackDocument renders the static template for a document type when the
// completion API is unavailable. Placeholders are interpolated with the
// organization fields from the request.
func fallbackDocument(typ domain.DocumentType, internal bool, input *domain.GeneratorInput) string {
	company := input.CompanyName
	if company == "" {
		company = "当社"
	}
	contact := input.ContactEmail
	if contact == "" {
		contact = "お問い合わせ窓口"
	}
	law := input.GoverningLaw
	if law == "" {
		law = "日本法"
	}

	replacer := strings.NewReplacer(
		"{{company}}", company,
		"{{contact}}", contact,
		"{{law}}", law,
	)

	var tmpl string
	switch typ {
	case domain.DocumentTypeTermsOfService:
		tmpl = pick(internal, internalTermsTemplate, externalTermsTemplate)
	case domain.DocumentTypePrivacyPolicy:
		tmpl = pick(internal, internalPrivacyTemplate, externalPrivacyTemplate)
	case domain.DocumentTypeAIUsagePolicy:
		tmpl = pick(internal, internalAIPolicyTemplate, externalAIPolicyTemplate)
	case domain.DocumentTypeDisclaimer:
		tmpl = pick(internal, internalDisclaimerTemplate, externalDisclaimerTemplate)
	case domain.DocumentTypeDataHandlingRules:
		tmpl = pick(internal, internalDataRulesTemplate, externalDataRulesTemplate)
	}

	return strings.TrimSpace(replacer.Replace(tmpl))
}

func pick(internal bool, internalTmpl, externalTmpl string) string {
	if internal {
		return internalTmpl
	}
	return externalTmpl
}

const externalTermsTemplate = `# 利用規約

## 第1条（適用）
本規約は、{{company}}（以下「当社」）が提供するサービス（以下「本サービス」）の利用条件を定めるものです。

## 第2条（AIによる出力）
1. 本サービスは人工知能技術を利用してコンテンツを生成します。
2. 生成されるコンテンツの正確性、完全性、有用性について、当社は保証しません。
3. 利用者は、生成されたコンテンツを自らの責任で検証のうえ利用するものとします。

## 第3条（禁止事項)
利用者は、以下の行為をしてはなりません。
- 法令または公序良俗に違反する行為
- 第三者の知的財産権、プライバシーを侵害する行為
- 本サービスの運営を妨害する行為
- 生成物を違法な目的で利用する行為

## 第4条（知的財産権）
本サービスにより生成されたコンテンツの利用権は、本規約の範囲内で利用者に帰属します。本サービス自体に関する知的財産権は当社に帰属します。

## 第5条（免責）
当社は、本サービスの利用により利用者に生じた損害について、当社に故意または重過失がある場合を除き、責任を負いません。

## 第6条（準拠法・管轄）
本規約は{{law}}に準拠し、本サービスに関する紛争は当社所在地を管轄する裁判所を専属的合意管轄とします。

お問い合わせ: {{contact}}
`

const internalTermsTemplate = `# 社内AIシステム利用規程

## 第1条（目的）
本規程は、{{company}}の役職員によるAIシステムの利用条件を定める。

## 第2条（利用範囲）
AIシステムは業務遂行の目的に限り利用できる。私的利用を禁止する。

## 第3条（入力データの制限）
1. 顧客の個人情報および機密情報の入力は、情報管理責任者の承認を得た場合を除き禁止する。
2. 要配慮個人情報はいかなる場合も入力してはならない。

## 第4条（出力の取扱い）
AIの出力を業務に利用する場合、利用者は内容の正確性を検証しなければならない。

## 第5条（違反時の措置）
本規程に違反した場合、就業規則に基づく措置の対象となることがある。

管理部門: {{contact}}
`

const externalPrivacyTemplate = `# プライバシーポリシー

{{company}}（以下「当社」）は、個人情報を以下のとおり取り扱います。

## 1. 取得する情報
当社は、サービス提供に必要な範囲で、アカウント情報、利用履歴、およびサービスへの入力内容を取得します。

## 2. 利用目的
- サービスの提供・改善
- AIによる応答・コンテンツの生成
- お問い合わせへの対応

## 3. AIサービスへの入力データの取扱い
サービスへの入力内容は、応答生成のため外部のAIプロバイダに送信されることがあります。当社は、入力内容がAIモデルの学習に利用されない設定を採用するよう努めます。

## 4. 第三者提供
法令に基づく場合を除き、本人の同意なく個人データを第三者に提供しません。

## 5. 保存期間と削除
取得した情報は利用目的の達成に必要な期間保存し、不要となった場合は遅滞なく削除します。

## 6. 開示等の請求
保有個人データの開示・訂正・利用停止のご請求は、下記窓口までご連絡ください。

窓口: {{contact}}
準拠法: {{law}}
`

const internalPrivacyTemplate = `# 従業員データ取扱方針

## 1. 対象
本方針は、{{company}}の役職員がAIシステムを利用する際に取り扱うデータに適用する。

## 2. 収集する情報
システムの利用ログ（利用日時、入力の種別、利用機能）を業務管理の目的で記録する。

## 3. 外部送信
AIシステムへの入力内容は外部のAIプロバイダに送信される。機密区分の高い情報の入力は禁止する。

## 4. 閲覧権限
利用ログは情報管理責任者のみが閲覧でき、目的外利用を禁止する。

窓口: {{contact}}
`

const externalAIPolicyTemplate = `# AI利用ポリシー

{{company}}は、サービスにおけるAI技術の利用について以下の方針を定めます。

## 1. AIを利用する機能
本サービスの応答生成・コンテンツ作成機能は、外部のAI基盤モデルを利用しています。

## 2. 人間による監督
重要な判断を伴う機能については、人間による確認プロセスを設けています。

## 3. 出力の限界
AIの出力には誤りが含まれる可能性があります。利用者への重要な影響がある判断には、出力のみに依拠しないでください。

## 4. 継続的改善
当社は、AIの出力品質と安全性の継続的な改善に努めます。

お問い合わせ: {{contact}}
`

const internalAIPolicyTemplate = `# 社内AI利用ポリシー

## 1. 許可されるツール
{{company}}が契約し情報システム部門が承認したAIツールのみ業務利用できる。

## 2. 入力の禁止事項
- 顧客・取引先の機密情報
- 未公開の財務情報・経営情報
- 個人情報（承認済みの業務フローを除く）

## 3. 出力の検証義務
AIの出力を成果物に利用する場合、事実関係と権利侵害の有無を確認すること。

## 4. 相談窓口
判断に迷う場合は {{contact}} に相談すること。
`

const externalDisclaimerTemplate = `# 免責事項

## 1. 情報の正確性
{{company}}のサービスが提供する情報およびAIが生成するコンテンツは、その正確性・完全性・最新性を保証するものではありません。

## 2. 専門的助言の非該当
本サービスの出力は、法律・税務・医療その他の専門的助言を構成するものではありません。具体的な判断については専門家にご相談ください。

## 3. 損害の制限
本サービスの利用または利用不能により生じた損害について、当社に故意または重過失がある場合を除き、当社は責任を負いません。

準拠法: {{law}}
お問い合わせ: {{contact}}
`

const internalDisclaimerTemplate = `# 社内向け注意事項

## 1. AI出力の位置づけ
社内AIシステムの出力は参考情報であり、業務上の判断の根拠とする場合は必ず裏付けを確認すること。

## 2. 責任範囲
AI出力に起因する誤りは、出力を利用した業務の担当者が検証責任を負う。{{company}}の情報システム部門はシステムの稼働のみに責任を負う。

相談窓口: {{contact}}
`

const externalDataRulesTemplate = `# データ取扱方針

## 1. データの分類
{{company}}は、ユーザーデータを公開情報、利用情報、個人情報に分類し、それぞれに応じた保護措置を講じます。

## 2. AI処理されるデータ
サービスへの入力内容および生成要求は、応答生成のためにAI基盤へ送信されます。送信されるデータの範囲は必要最小限とします。

## 3. 保護措置
通信の暗号化、アクセス制御、ログ監査を実施します。

## 4. 削除ポリシー
アカウント削除時、関連する個人データは法令上の保存義務があるものを除き削除します。

窓口: {{contact}}
準拠法: {{law}}
`

const internalDataRulesTemplate = `# データ取扱規程

## 1. データ分類
社内データを「公開」「社内限」「機密」「極秘」の4区分で管理する。

## 2. AIへの入力可否
- 公開: 入力可
- 社内限: 所属長の承認があれば入力可
- 機密・極秘: 入力禁止

## 3. インシデント報告
誤って機密情報をAIシステムに入力した場合は、直ちに {{contact}} へ報告する。

## 4. 改廃
本規程の改廃は{{company}}の情報管理委員会が行う。
`
