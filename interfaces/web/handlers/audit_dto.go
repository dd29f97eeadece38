package handlers

import (
	"encoding/json"
	"time"

	"sitegrade/domain/audit"
)

// signalDTO is the wire form of one signal sub-state.
type signalDTO struct {
	Status    string     `json:"status"`
	Score     *float64   `json:"score"`
	Grade     string     `json:"grade,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	FetchedAt *time.Time `json:"fetched_at"`
}

// auditDTO is the wire form of an audit record.
type auditDTO struct {
	ID          string `json:"id"`
	CompanyName string `json:"company_name"`
	WebsiteURL  string `json:"website_url"`

	W3C           signalDTO `json:"w3c"`
	W3CIssueCount *int64    `json:"w3c_issue_count"`
	W3CAuditURL   string    `json:"w3c_audit_url,omitempty"`

	PSI         signalDTO `json:"psi"`
	PSIAuditURL string    `json:"psi_audit_url,omitempty"`

	Accessibility         signalDTO `json:"accessibility"`
	AccessibilityAuditURL string    `json:"accessibility_audit_url,omitempty"`

	Crawlability        signalDTO       `json:"ai"`
	CrawlabilityDetails json.RawMessage `json:"ai_details,omitempty"`

	DesignScore *float64 `json:"design_score"`
	DesignGrade string   `json:"design_grade,omitempty"`

	OverallScore *float64 `json:"overall_score"`
	OverallGrade string   `json:"overall_grade,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func toSignalDTO(s audit.Signal) signalDTO {
	return signalDTO{
		Status:    string(s.Status),
		Score:     s.Score,
		Grade:     s.Grade,
		LastError: s.LastError,
		FetchedAt: s.FetchedAt,
	}
}

func toAuditDTO(a *audit.Audit) auditDTO {
	return auditDTO{
		ID:          a.ID,
		CompanyName: a.CompanyName,
		WebsiteURL:  a.WebsiteURL,

		W3C:           toSignalDTO(a.W3C),
		W3CIssueCount: a.W3CIssueCount,
		W3CAuditURL:   a.W3CAuditURL,

		PSI:         toSignalDTO(a.PSI),
		PSIAuditURL: a.PSIAuditURL,

		Accessibility:         toSignalDTO(a.Accessibility),
		AccessibilityAuditURL: a.AccessibilityAuditURL,

		Crawlability:        toSignalDTO(a.Crawlability),
		CrawlabilityDetails: json.RawMessage(a.CrawlabilityDetails),

		DesignScore: a.DesignScore,
		DesignGrade: a.DesignGrade,

		OverallScore: a.OverallScore,
		OverallGrade: a.OverallGrade,

		CreatedAt: a.CreatedAt,
	}
}

func toAuditDTOs(audits []*audit.Audit) []auditDTO {
	dtos := make([]auditDTO, 0, len(audits))
	for _, a := range audits {
		dtos = append(dtos, toAuditDTO(a))
	}
	return dtos
}
