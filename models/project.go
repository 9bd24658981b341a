package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StatusFlag string

const (
	StatusPlanning   StatusFlag = "PLANNING"
	StatusInProgress StatusFlag = "IN_PROGRESS"
	StatusCompleted  StatusFlag = "COMPLETED"
	StatusMaintained StatusFlag = "MAINTAINED"
	StatusArchived   StatusFlag = "ARCHIVED"
)

type CollabMode string

const (
	CollabSolo  CollabMode = "SOLO"
	CollabGroup CollabMode = "GROUP"
)

type AffiliationType string

const (
	AffiliationIndependent  AffiliationType = "INDEPENDENT"
	AffiliationUniversity   AffiliationType = "UNIVERSITY"
	AffiliationOrganization AffiliationType = "ORGANIZATION"
	AffiliationClub         AffiliationType = "CLUB"
)

type SourceCodeAvailability string

const (
	SourceOpen   SourceCodeAvailability = "OPEN_SOURCE"
	SourceClosed SourceCodeAvailability = "CLOSED_SOURCE"
	SourceNDA    SourceCodeAvailability = "UNDER_NDA"
)

// Project represents a portfolio project with an optional screenshot
type Project struct {
	ID                     uuid.UUID              `json:"id" gorm:"type:uuid;primaryKey"`
	Name                   string                 `json:"name" gorm:"type:text;not null"`
	ShortDesc              string                 `json:"shortDesc" gorm:"type:text;not null"`
	LongDesc               *string                `json:"longDesc,omitempty" gorm:"type:text"`
	StatusFlag             StatusFlag             `json:"statusFlag" gorm:"type:text;not null"`
	StartDate              datatypes.Date         `json:"startDate" gorm:"not null;index"`
	EndDate                *datatypes.Date        `json:"endDate"`
	CollabMode             CollabMode             `json:"collabMode" gorm:"type:text;not null"`
	Affiliation            string                 `json:"affiliation" gorm:"type:text;not null"`
	AffiliationType        AffiliationType        `json:"affiliationType" gorm:"type:text;not null"`
	SourceCodeAvailability SourceCodeAvailability `json:"sourceCodeAvailability" gorm:"type:text;not null"`
	TechStacks             string                 `json:"techStacks" gorm:"type:text;not null"`
	ProjectURL             *string                `json:"projectUrl,omitempty" gorm:"type:text"`
	LiveURL                *string                `json:"liveUrl,omitempty" gorm:"type:text"`
	Image                  []byte                 `json:"image,omitempty"`
	ImageType              *string                `json:"imageType,omitempty" gorm:"type:text"`
	HasImage               bool                   `json:"hasImage" gorm:"-"`
	CreatedAt              time.Time              `json:"createdAt"`
	UpdatedAt              time.Time              `json:"updatedAt"`
}

func (p *Project) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// BeforeSave keeps the planning invariant: a project that has not started has no end date.
func (p *Project) BeforeSave(*gorm.DB) error {
	if p.StatusFlag == StatusPlanning {
		p.EndDate = nil
	}
	return nil
}

func (p *Project) AfterFind(*gorm.DB) error {
	p.HasImage = hasMedia(p.ImageType)
	return nil
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func hasMedia(imageType *string) bool {
	return imageType != nil && *imageType != ""
}
