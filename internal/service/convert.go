package service

import (
	"github.com/mmynk/hallcount/internal/models"
	"github.com/mmynk/hallcount/pkg/api"
)

func countRecordToAPI(r *models.CountRecord) *api.CountRecord {
	out := &api.CountRecord{
		Id:              r.ID,
		HeadCount:       r.HeadCount,
		Confidence:      r.Confidence,
		ConfidenceLevel: string(r.ConfidenceLevel()),
		Timestamp:       r.Timestamp,
		SessionName:     r.SessionName,
		ImageSize:       r.ImageSize,
		Counter:         r.Counter,
	}
	if c := r.Comparison; c != nil {
		signatureCount, isMatched := c.SignatureCount, c.IsMatched
		out.SignatureCount = &signatureCount
		out.IsMatched = &isMatched
	}
	return out
}

func signatureRecordToAPI(r *models.SignatureRecord) *api.SignatureRecord {
	return &api.SignatureRecord{
		Id:              r.ID,
		ImageUrl:        r.ImageURL,
		SignatureCount:  r.SignatureCount,
		Confidence:      r.Confidence,
		ConfidenceLevel: string(models.LevelOf(r.Confidence)),
		Pages:           r.Pages,
		Timestamp:       r.Timestamp,
		SessionName:     r.SessionName,
	}
}

func verificationToAPI(v *models.Verification) *api.Verification {
	return &api.Verification{
		Id:                v.ID,
		CountRecordId:     v.CountRecordID,
		SignatureRecordId: v.SignatureRecordID,
		HeadCount:         v.HeadCount,
		SignatureCount:    v.SignatureCount,
		Difference:        v.Difference,
		IsMatched:         v.IsMatched,
		Accuracy:          v.Accuracy,
		Status:            string(v.Status),
		Note:              v.Note,
		Threshold:         v.Threshold,
		Timestamp:         v.Timestamp,
	}
}
