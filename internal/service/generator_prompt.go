package service

import (
	"fmt"
	"strings"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
)

// markers used to infer whether the generated documents target internal
// staff only. Internal use requires at least one internal marker and no
// external marker across target users and use cases.
var (
	internalMarkers = []string{"internal", "internal_employees", "employees", "internal_use", "社内"}
	externalMarkers = []string{"general_public", "customers", "consumers", "external", "eu", "children", "一般"}
)

func isInternalUse(input *domain.GeneratorInput) bool {
	if input.DiagnosisInput == nil {
		return false
	}
	values := append([]string{}, input.DiagnosisInput.TargetUsers...)
	values = append(values, input.DiagnosisInput.UseCases...)
	if len(values) == 0 {
		return false
	}

	hasInternal := false
	for _, v := range values {
		lv := strings.ToLower(strings.TrimSpace(v))
		for _, m := range externalMarkers {
			if strings.Contains(lv, m) {
				return false
			}
		}
		for _, m := range internalMarkers {
			if strings.Contains(lv, m) {
				hasInternal = true
			}
		}
	}
	return hasInternal
}

// buildDocumentPrompt concatenates base context, diagnosis context, chat
// history, additional clauses, and the type-specific instruction block.
func buildDocumentPrompt(input *domain.GeneratorInput, typ domain.DocumentType, internal bool) string {
	var b strings.Builder

	b.WriteString("あなたは企業向け法務文書の作成を支援する専門家です。以下の情報をもとに、日本法を前提とした文書をMarkdown形式で作成してください。\n\n")

	b.WriteString("## 基本情報\n")
	writeField(&b, "会社名", input.CompanyName)
	writeField(&b, "連絡先", input.ContactEmail)
	writeField(&b, "準拠法", input.GoverningLaw)
	if internal {
		b.WriteString("文書の用途: 社内利用（従業員向け）\n")
	} else {
		b.WriteString("文書の用途: 社外向け（サービス利用者向け）\n")
	}

	if input.Diagnosis != nil {
		b.WriteString("\n## リスク診断結果\n")
		fmt.Fprintf(&b, "総合リスクレベル: %s\n", input.Diagnosis.OverallRiskLevel)
		if input.Diagnosis.ExecutiveSummary != "" {
			fmt.Fprintf(&b, "要約: %s\n", input.Diagnosis.ExecutiveSummary)
		}
		for _, r := range input.Diagnosis.Risks {
			fmt.Fprintf(&b, "- [%s/%s] %s: %s\n", r.Category, r.Level, r.Title, r.Description)
		}
	}

	if input.DiagnosisInput != nil {
		b.WriteString("\n## サービス情報\n")
		writeField(&b, "サービス名", input.DiagnosisInput.AppName)
		writeField(&b, "概要", input.DiagnosisInput.AppDescription)
		writeListSection(&b, "利用AI技術", input.DiagnosisInput.AITechnologies)
		writeListSection(&b, "入力データの種類", input.DiagnosisInput.InputDataTypes)
	}

	if len(input.ChatHistory) > 0 {
		b.WriteString("\n## 相談履歴（抜粋）\n")
		for _, m := range input.ChatHistory {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, truncate(m.Content, 300))
		}
	}

	if len(input.AdditionalClauses) > 0 {
		b.WriteString("\n## 盛り込むべき追加条項\n")
		for _, c := range input.AdditionalClauses {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}

	b.WriteString("\n## 作成する文書\n")
	b.WriteString(typeInstructions(typ, internal))
	b.WriteString("\n\n文書本体のみをMarkdownで出力してください。コードフェンスで囲まないでください。\n")

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

// typeInstructions is the type × internal/external instruction table.
// The switch is exhaustive over the closed DocumentType enum.
func typeInstructions(typ domain.DocumentType, internal bool) string {
	switch typ {
	case domain.DocumentTypeTermsOfService:
		if internal {
			return "社内システム利用規程: AIシステムの社内利用に関する規程。利用範囲、禁止事項、入力してよいデータの区分、違反時の措置を含めてください。"
		}
		return "利用規約: サービスの利用条件。AIが生成するコンテンツの性質と免責、禁止事項、知的財産権の帰属、準拠法・管轄を含めてください。"
	case domain.DocumentTypePrivacyPolicy:
		if internal {
			return "従業員データ取扱方針: 従業員がAIシステムに入力するデータの取扱い。収集する情報、利用目的、外部AIプロバイダへの送信の有無を含めてください。"
		}
		return "プライバシーポリシー: 個人情報の取得・利用・第三者提供。AIサービスへの入力データの取扱い、外部送信、保存期間、開示請求への対応を含めてください。"
	case domain.DocumentTypeAIUsagePolicy:
		if internal {
			return "社内AI利用ポリシー: 従業員によるAIツール利用の指針。許可されるツール、機密情報入力の禁止、出力の検証義務を含めてください。"
		}
		return "AI利用ポリシー: サービスにおけるAIの利用方針の対外的説明。AIを利用する機能、人間による監督、出力の限界の説明を含めてください。"
	case domain.DocumentTypeDisclaimer:
		if internal {
			return "社内向け免責・注意事項: AI出力を業務利用する際の注意事項と責任範囲を含めてください。"
		}
		return "免責事項: AIが生成する情報の正確性・完全性に関する免責。専門的助言の非該当性、損害賠償の制限を含めてください。"
	case domain.DocumentTypeDataHandlingRules:
		if internal {
			return "データ取扱規程: 社内でのデータ分類、AIへの入力可否基準、インシデント時の報告手順を含めてください。"
		}
		return "データ取扱方針: ユーザーデータの分類と保護措置、AI処理されるデータの範囲、削除ポリシーを含めてください。"
	}
	return string(typ)
}
