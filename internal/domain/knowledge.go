package domain

import (
	"strings"
	"time"
)

// KnowledgeType tags a knowledge row.
type KnowledgeType string

const (
	KnowledgeTypeCompanyInfo   KnowledgeType = "company_info"
	KnowledgeTypePortfolioInfo KnowledgeType = "portfolio_info"
	KnowledgeTypeVideo         KnowledgeType = "video"
)

// IsValid reports whether t can be stored in the knowledge table.
func (t KnowledgeType) IsValid() bool {
	switch t {
	case KnowledgeTypeCompanyInfo, KnowledgeTypePortfolioInfo:
		return true
	}
	return false
}

// KnowledgeItem is one row of the knowledge base: either a free-form fact from the
// knowledge table or an entry of the video catalog. Video rows carry a VimeoID.
type KnowledgeItem struct {
	ID          int64
	Type        KnowledgeType
	Content     string
	Title       string
	Category    string
	Description string
	VimeoID     string
	Client      string
	Production  string
	Creation    string
	CreatedAt   time.Time
}

// IsVideo reports whether the item comes from the video catalog.
func (k KnowledgeItem) IsVideo() bool {
	return k.VimeoID != ""
}

// KnowledgeFromVideo lifts a catalog entry into the knowledge base.
func KnowledgeFromVideo(v *Video) KnowledgeItem {
	return KnowledgeItem{
		ID:          v.ID,
		Type:        KnowledgeTypeVideo,
		Title:       v.Title,
		Category:    v.Category,
		Description: v.Description,
		VimeoID:     v.VimeoID,
		Client:      v.Client,
		Production:  v.Production,
		Creation:    v.Creation,
		CreatedAt:   v.CreatedAt,
	}
}

// ValidateKnowledgeInput checks a new knowledge row before it is written.
func ValidateKnowledgeInput(t KnowledgeType, content string) error {
	if t == "" || strings.TrimSpace(content) == "" {
		return ErrMissingRequiredField
	}
	if !t.IsValid() {
		return ErrInvalidKnowledgeType
	}
	return nil
}
