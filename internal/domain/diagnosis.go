package domain

import (
	"strings"
	"time"
)

// RiskLevel classifies the severity of an identified legal risk.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// rank orders risk levels for comparison; unknown levels rank lowest.
func (l RiskLevel) rank() int {
	switch l {
	case RiskLevelHigh:
		return 3
	case RiskLevelMedium:
		return 2
	case RiskLevelLow:
		return 1
	}
	return 0
}

// AtLeast reports whether l is the same severity as other or higher.
func (l RiskLevel) AtLeast(other RiskLevel) bool {
	return l.rank() >= other.rank()
}

// MaxRiskLevel returns the highest severity among the given levels,
// defaulting to low when none are given.
func MaxRiskLevel(levels ...RiskLevel) RiskLevel {
	max := RiskLevelLow
	for _, l := range levels {
		if l.rank() > max.rank() {
			max = l
		}
	}
	return max
}

// DiagnosisInput is the usage questionnaire submitted by the wizard UI.
// It lives only for the duration of a request and is never persisted.
type DiagnosisInput struct {
	AppName          string   `json:"appName"`
	AppDescription   string   `json:"appDescription"`
	AITechnologies   []string `json:"aiTechnologies"`
	Providers        []string `json:"providers"`
	InputDataTypes   []string `json:"inputDataTypes"`
	DataTransmission string   `json:"dataTransmission"`
	TargetUsers      []string `json:"targetUsers"`
	UseCases         []string `json:"useCases"`
	Concerns         []string `json:"concerns"`
	FreeText         string   `json:"freeText"`
}

// Validate checks the minimum fields required to run a diagnosis.
func (in *DiagnosisInput) Validate() error {
	if strings.TrimSpace(in.AppDescription) == "" {
		return ErrMissingAppDescription
	}
	return nil
}

// HasDataType reports whether the questionnaire lists the given input data type.
func (in *DiagnosisInput) HasDataType(t string) bool {
	return containsFold(in.InputDataTypes, t)
}

// HasTargetUser reports whether the questionnaire lists the given user group.
func (in *DiagnosisInput) HasTargetUser(u string) bool {
	return containsFold(in.TargetUsers, u)
}

// HasTechnology reports whether the questionnaire lists the given AI technology.
func (in *DiagnosisInput) HasTechnology(t string) bool {
	return containsFold(in.AITechnologies, t)
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}

// RiskItem is a single identified risk within a diagnosis.
type RiskItem struct {
	Category        string    `json:"category"`
	Level           RiskLevel `json:"level"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Recommendations []string  `json:"recommendations"`
	LegalBasis      string    `json:"legalBasis,omitempty"`
}

// RelatedCase points to precedent or guidance relevant to a diagnosis.
type RelatedCase struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	URL     string `json:"url,omitempty"`
}

// DiagnosisResult is the outcome of a risk diagnosis. It is returned to the
// caller and optionally fed back into document generation; it is not stored.
type DiagnosisResult struct {
	OverallRiskLevel RiskLevel     `json:"overallRiskLevel"`
	ExecutiveSummary string        `json:"executiveSummary"`
	Risks            []RiskItem    `json:"risks"`
	PriorityActions  []string      `json:"priorityActions"`
	RelatedCases     []RelatedCase `json:"relatedCases"`
	Disclaimer       string        `json:"disclaimer"`
	DiagnosedAt      time.Time     `json:"diagnosedAt"`
	AppName          string        `json:"appName"`
}

// DiagnosisSource records which path produced a diagnosis.
type DiagnosisSource string

const (
	// DiagnosisSourceLive means the completion API produced the result.
	DiagnosisSourceLive DiagnosisSource = "live"
	// DiagnosisSourceFallback means the rule engine produced the result.
	DiagnosisSourceFallback DiagnosisSource = "fallback"
)

// ChatMessage is one turn of a consultation transcript forwarded by the UI.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
