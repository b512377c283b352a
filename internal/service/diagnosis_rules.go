package service

import (
	"strings"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
)

// Risk categories emitted by the rule engine.
const (
	CategoryPrivacy         = "プライバシー・個人情報保護"
	CategoryAPITerms        = "API利用規約"
	CategoryCopyright       = "著作権・知的財産"
	CategoryEUAIAct         = "EU AI規制"
	CategoryChildProtection = "児童保護"
	CategoryGeneral         = "一般的な法的留意事項"
)

// diagnoseByRules is the deterministic fallback when the completion API is
// unavailable or unparseable. It is pure: the same input always yields the
// same result (modulo timestamps stamped by the caller).
func diagnoseByRules(input *domain.DiagnosisInput) *domain.DiagnosisResult {
	var risks []domain.RiskItem

	if item := privacyRule(input); item != nil {
		risks = append(risks, *item)
	}
	if item := apiTermsRule(input); item != nil {
		risks = append(risks, *item)
	}
	if item := copyrightRule(input); item != nil {
		risks = append(risks, *item)
	}
	if item := euAIActRule(input); item != nil {
		risks = append(risks, *item)
	}
	if item := childProtectionRule(input); item != nil {
		risks = append(risks, *item)
	}

	if len(risks) == 0 {
		risks = append(risks, domain.RiskItem{
			Category:    CategoryGeneral,
			Level:       domain.RiskLevelMedium,
			Title:       "AIサービス提供に伴う一般的な法的リスク",
			Description: "AIを利用したサービスの提供には、利用規約の整備、出力内容に関する免責、データの取扱いの明示など、一般的な法的留意事項があります。",
			Recommendations: []string{
				"利用規約とプライバシーポリシーを整備する",
				"AIの出力に関する免責条項を明示する",
			},
		})
	}

	levels := make([]domain.RiskLevel, 0, len(risks))
	for _, r := range risks {
		levels = append(levels, r.Level)
	}
	overall := domain.MaxRiskLevel(levels...)

	return &domain.DiagnosisResult{
		OverallRiskLevel: overall,
		ExecutiveSummary: summaryForLevel(overall, len(risks)),
		Risks:            risks,
		PriorityActions:  priorityActions(risks),
		RelatedCases:     []domain.RelatedCase{},
		Disclaimer:       diagnosisDisclaimer,
	}
}

func privacyRule(input *domain.DiagnosisInput) *domain.RiskItem {
	switch {
	case input.HasDataType("sensitive_personal"):
		return &domain.RiskItem{
			Category:    CategoryPrivacy,
			Level:       domain.RiskLevelHigh,
			Title:       "要配慮個人情報の取扱い",
			Description: "要配慮個人情報をAIサービスに入力する場合、本人の同意取得と安全管理措置が必須です。外部AIへの入力は第三者提供に該当し得ます。",
			Recommendations: []string{
				"要配慮個人情報の入力について本人の明示的な同意を取得する",
				"入力前の仮名化・匿名化を検討する",
				"プライバシーポリシーにAIへの入力を明記する",
			},
			LegalBasis: "個人情報保護法 第2条第3項・第20条第2項",
		}
	case input.HasDataType("personal_info"):
		return &domain.RiskItem{
			Category:    CategoryPrivacy,
			Level:       domain.RiskLevelMedium,
			Title:       "個人情報の取扱い",
			Description: "個人情報をAIサービスに入力する場合、利用目的の特定・通知と、外部送信時の委託・第三者提供の整理が必要です。",
			Recommendations: []string{
				"利用目的にAIによる処理を含めて特定・公表する",
				"AIプロバイダとの契約でデータの学習利用有無を確認する",
			},
			LegalBasis: "個人情報保護法 第17条・第27条",
		}
	}
	return nil
}

func apiTermsRule(input *domain.DiagnosisInput) *domain.RiskItem {
	transmission := strings.ToLower(strings.TrimSpace(input.DataTransmission))
	if transmission != "external_api" && transmission != "cloud" {
		return nil
	}
	return &domain.RiskItem{
		Category:    CategoryAPITerms,
		Level:       domain.RiskLevelMedium,
		Title:       "外部AI APIの利用規約遵守",
		Description: "外部AI APIへデータを送信する構成では、プロバイダの利用規約・データ処理条項（入力データの学習利用、保持期間、再配布制限）の遵守が求められます。",
		Recommendations: []string{
			"利用中のAIプロバイダの利用規約とデータ処理規約を確認する",
			"商用利用・出力物の権利帰属に関する条項を整理する",
		},
	}
}

func copyrightRule(input *domain.DiagnosisInput) *domain.RiskItem {
	if !input.HasTechnology("llm") && !input.HasTechnology("generative_ai") && !input.HasTechnology("image_generation") {
		return nil
	}
	return &domain.RiskItem{
		Category:    CategoryCopyright,
		Level:       domain.RiskLevelMedium,
		Title:       "生成物の著作権・既存著作物の権利侵害",
		Description: "生成AIの出力が既存著作物に類似する場合、著作権侵害のリスクがあります。また生成物自体の権利帰属を利用規約で明確にする必要があります。",
		Recommendations: []string{
			"生成物の権利帰属と利用条件を利用規約に明記する",
			"既存著作物との類似性チェックの体制を検討する",
		},
		LegalBasis: "著作権法 第30条の4",
	}
}

func euAIActRule(input *domain.DiagnosisInput) *domain.RiskItem {
	if !input.HasTargetUser("eu") {
		return nil
	}
	return &domain.RiskItem{
		Category:    CategoryEUAIAct,
		Level:       domain.RiskLevelHigh,
		Title:       "EU AI Act の適用可能性",
		Description: "EU域内のユーザーにAIサービスを提供する場合、EU AI Actの域外適用を受ける可能性があります。リスク分類に応じた透明性義務・適合性評価が必要です。",
		Recommendations: []string{
			"提供するAI機能のEU AI Act上のリスク分類を確認する",
			"AI利用の明示など透明性義務への対応を整備する",
			"GDPRを含むEU法令全般の適用関係を専門家に確認する",
		},
		LegalBasis: "EU AI Act (Regulation (EU) 2024/1689)",
	}
}

func childProtectionRule(input *domain.DiagnosisInput) *domain.RiskItem {
	if !input.HasTargetUser("children") {
		return nil
	}
	return &domain.RiskItem{
		Category:    CategoryChildProtection,
		Level:       domain.RiskLevelHigh,
		Title:       "児童を対象とするサービスの保護義務",
		Description: "児童が利用するAIサービスでは、保護者同意の取得、年齢確認、不適切コンテンツのフィルタリングなど、通常より高い保護水準が求められます。",
		Recommendations: []string{
			"保護者の同意取得フローと年齢確認を導入する",
			"児童に不適切な出力を抑止するフィルタリングを実装する",
			"児童の個人情報の取扱いを最小化する",
		},
	}
}

const (
	maxPriorityActions = 5
)

// priorityActions takes the first recommendation of each high item, then
// each medium item, capped at five. If nothing qualifies, two generic
// defaults keep the list non-empty.
func priorityActions(risks []domain.RiskItem) []string {
	actions := make([]string, 0, maxPriorityActions)
	for _, level := range []domain.RiskLevel{domain.RiskLevelHigh, domain.RiskLevelMedium} {
		for _, r := range risks {
			if r.Level != level || len(r.Recommendations) == 0 {
				continue
			}
			if len(actions) >= maxPriorityActions {
				return actions
			}
			actions = append(actions, r.Recommendations[0])
		}
	}
	if len(actions) == 0 {
		actions = append(actions,
			"利用規約とプライバシーポリシーを整備する",
			"AIの利用についてユーザーへ明示する",
		)
	}
	return actions
}

func summaryForLevel(level domain.RiskLevel, count int) string {
	switch level {
	case domain.RiskLevelHigh:
		return "重大な法的リスクが検出されました。優先対応事項への速やかな着手を推奨します。"
	case domain.RiskLevelMedium:
		return "中程度の法的リスクが検出されました。利用規約等の整備により多くは低減可能です。"
	default:
		if count == 0 {
			return "顕著な法的リスクは検出されませんでした。"
		}
		return "現時点で重大な法的リスクは検出されませんでしたが、基本的な整備は推奨されます。"
	}
}
