package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
)

func riskByCategory(t *testing.T, result *domain.DiagnosisResult, category string) *domain.RiskItem {
	t.Helper()
	for i := range result.Risks {
		if result.Risks[i].Category == category {
			return &result.Risks[i]
		}
	}
	return nil
}

func TestDiagnoseByRules_SensitivePersonalData(t *testing.T) {
	result := diagnoseByRules(&domain.DiagnosisInput{
		AppDescription: "医療相談AI",
		InputDataTypes: []string{"sensitive_personal"},
	})

	item := riskByCategory(t, result, CategoryPrivacy)
	require.NotNil(t, item)
	assert.Equal(t, domain.RiskLevelHigh, item.Level)
	assert.Equal(t, domain.RiskLevelHigh, result.OverallRiskLevel)
	assert.NotEmpty(t, item.Recommendations)
}

func TestDiagnoseByRules_PersonalInfo(t *testing.T) {
	result := diagnoseByRules(&domain.DiagnosisInput{
		AppDescription: "顧客対応チャットボット",
		InputDataTypes: []string{"personal_info"},
	})

	item := riskByCategory(t, result, CategoryPrivacy)
	require.NotNil(t, item)
	assert.Equal(t, domain.RiskLevelMedium, item.Level)
	assert.Equal(t, domain.RiskLevelMedium, result.OverallRiskLevel)
}

func TestDiagnoseByRules_ExternalAPITransmission(t *testing.T) {
	for _, transmission := range []string{"external_api", "cloud", "External_API"} {
		result := diagnoseByRules(&domain.DiagnosisInput{
			AppDescription:   "要約サービス",
			DataTransmission: transmission,
		})

		item := riskByCategory(t, result, CategoryAPITerms)
		require.NotNil(t, item, transmission)
		assert.Equal(t, domain.RiskLevelMedium, item.Level)
	}

	result := diagnoseByRules(&domain.DiagnosisInput{
		AppDescription:   "オンプレ処理",
		DataTransmission: "on_premise",
	})
	assert.Nil(t, riskByCategory(t, result, CategoryAPITerms))
}

func TestDiagnoseByRules_GenerativeTechnologies(t *testing.T) {
	for _, tech := range []string{"llm", "generative_ai", "image_generation"} {
		result := diagnoseByRules(&domain.DiagnosisInput{
			AppDescription: "生成サービス",
			AITechnologies: []string{tech},
		})

		item := riskByCategory(t, result, CategoryCopyright)
		require.NotNil(t, item, tech)
		assert.Equal(t, domain.RiskLevelMedium, item.Level)
	}
}

func TestDiagnoseByRules_EUUsers(t *testing.T) {
	result := diagnoseByRules(&domain.DiagnosisInput{
		AppDescription: "越境サービス",
		TargetUsers:    []string{"eu"},
	})

	item := riskByCategory(t, result, CategoryEUAIAct)
	require.NotNil(t, item)
	assert.Equal(t, domain.RiskLevelHigh, item.Level)
	assert.Equal(t, domain.RiskLevelHigh, result.OverallRiskLevel)
}

func TestDiagnoseByRules_Children(t *testing.T) {
	result := diagnoseByRules(&domain.DiagnosisInput{
		AppDescription: "学習アプリ",
		TargetUsers:    []string{"children"},
	})

	item := riskByCategory(t, result, CategoryChildProtection)
	require.NotNil(t, item)
	assert.Equal(t, domain.RiskLevelHigh, item.Level)
}

func TestDiagnoseByRules_NoSignals(t *testing.T) {
	result := diagnoseByRules(&domain.DiagnosisInput{
		AppDescription: "静的な情報提供サイト",
	})

	require.Len(t, result.Risks, 1)
	assert.Equal(t, CategoryGeneral, result.Risks[0].Category)
	assert.Equal(t, domain.RiskLevelMedium, result.OverallRiskLevel)
	assert.NotEmpty(t, result.PriorityActions)
}

func TestDiagnoseByRules_CombinedScenario(t *testing.T) {
	result := diagnoseByRules(&domain.DiagnosisInput{
		AppDescription:   "EU向け生成AIチャット",
		InputDataTypes:   []string{"personal_info"},
		DataTransmission: "external_api",
		AITechnologies:   []string{"llm"},
		TargetUsers:      []string{"eu"},
	})

	assert.GreaterOrEqual(t, len(result.Risks), 3)
	assert.Equal(t, domain.RiskLevelHigh, result.OverallRiskLevel)
	assert.NotEmpty(t, result.ExecutiveSummary)
	assert.NotEmpty(t, result.Disclaimer)
}

func TestPriorityActions_HighBeforeMediumCappedAtFive(t *testing.T) {
	risks := []domain.RiskItem{
		{Level: domain.RiskLevelMedium, Recommendations: []string{"m1", "m1b"}},
		{Level: domain.RiskLevelHigh, Recommendations: []string{"h1"}},
		{Level: domain.RiskLevelMedium, Recommendations: []string{"m2"}},
		{Level: domain.RiskLevelHigh, Recommendations: []string{"h2"}},
		{Level: domain.RiskLevelMedium, Recommendations: []string{"m3"}},
		{Level: domain.RiskLevelMedium, Recommendations: []string{"m4"}},
	}

	actions := priorityActions(risks)

	require.Len(t, actions, 5)
	assert.Equal(t, []string{"h1", "h2", "m1", "m2", "m3"}, actions)
}

func TestPriorityActions_DefaultsWhenEmpty(t *testing.T) {
	actions := priorityActions(nil)
	assert.Len(t, actions, 2)
}

func TestPriorityActions_AlwaysBetweenOneAndFive(t *testing.T) {
	inputs := []*domain.DiagnosisInput{
		{AppDescription: "a"},
		{AppDescription: "b", InputDataTypes: []string{"sensitive_personal"}},
		{AppDescription: "c", InputDataTypes: []string{"personal_info"}, DataTransmission: "cloud",
			AITechnologies: []string{"generative_ai"}, TargetUsers: []string{"eu", "children"}},
	}

	for _, input := range inputs {
		result := diagnoseByRules(input)
		assert.GreaterOrEqual(t, len(result.PriorityActions), 1)
		assert.LessOrEqual(t, len(result.PriorityActions), 5)
	}
}

func TestMaxRiskLevel(t *testing.T) {
	assert.Equal(t, domain.RiskLevelHigh, domain.MaxRiskLevel(domain.RiskLevelLow, domain.RiskLevelHigh, domain.RiskLevelMedium))
	assert.Equal(t, domain.RiskLevelMedium, domain.MaxRiskLevel(domain.RiskLevelLow, domain.RiskLevelMedium))
	assert.Equal(t, domain.RiskLevelLow, domain.MaxRiskLevel())
}
