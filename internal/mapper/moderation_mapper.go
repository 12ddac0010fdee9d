package mapper

import (
	"music-promo-be/internal/entity"
	"music-promo-be/internal/model"
)

type ModerationMapper struct{}

func NewModerationMapper() *ModerationMapper {
	return &ModerationMapper{}
}

func (m *ModerationMapper) ToEntity(mdl *model.ModerationItem) *entity.ModerationItem {
	if mdl == nil {
		return nil
	}
	return &entity.ModerationItem{
		Id:             mdl.Id,
		OwnerId:        mdl.OwnerId,
		ContentType:    entity.ContentType(mdl.ContentType),
		Title:          mdl.Title,
		Payload:        mdl.Payload,
		IsPaid:         mdl.IsPaid,
		Status:         entity.ModerationStatus(mdl.Status),
		ModerationNote: mdl.ModerationNote,
		CreatedAt:      mdl.CreatedAt,
		DecidedAt:      mdl.DecidedAt,
	}
}

func (m *ModerationMapper) ToModel(e *entity.ModerationItem) *model.ModerationItem {
	if e == nil {
		return nil
	}
	return &model.ModerationItem{
		Id:             e.Id,
		OwnerId:        e.OwnerId,
		ContentType:    string(e.ContentType),
		Title:          e.Title,
		Payload:        e.Payload,
		IsPaid:         e.IsPaid,
		Status:         string(e.Status),
		ModerationNote: e.ModerationNote,
		CreatedAt:      e.CreatedAt,
		DecidedAt:      e.DecidedAt,
	}
}
