// Package api defines the request and response messages of the
// hallcount.v1.AttendanceService. Messages travel as JSON; byte slices are
// base64 encoded.
package api

import "time"

// CountRecord is a completed hall scan.
type CountRecord struct {
	Id              string    `json:"id"`
	HeadCount       int       `json:"headCount"`
	Confidence      float64   `json:"confidence"`
	ConfidenceLevel string    `json:"confidenceLevel"`
	Timestamp       time.Time `json:"timestamp"`
	SessionName     string    `json:"sessionName,omitempty"`
	ImageSize       int       `json:"imageSize"`
	Counter         string    `json:"counter"`

	// SignatureCount and IsMatched are set together once the record has been compared.
	SignatureCount *int  `json:"signatureCount,omitempty"`
	IsMatched      *bool `json:"isMatched,omitempty"`
}

// SignatureRecord is a completed sign-in sheet scan.
type SignatureRecord struct {
	Id              string    `json:"id"`
	ImageUrl        string    `json:"imageUrl"`
	SignatureCount  int       `json:"signatureCount"`
	Confidence      float64   `json:"confidence"`
	ConfidenceLevel string    `json:"confidenceLevel"`
	Pages           int       `json:"pages"`
	Timestamp       time.Time `json:"timestamp"`
	SessionName     string    `json:"sessionName,omitempty"`
}

// Verification is a stored comparison of a CountRecord and a SignatureRecord.
type Verification struct {
	Id                string    `json:"id"`
	CountRecordId     string    `json:"countRecordId"`
	SignatureRecordId string    `json:"signatureRecordId"`
	HeadCount         int       `json:"headCount"`
	SignatureCount    int       `json:"signatureCount"`
	Difference        int       `json:"difference"`
	IsMatched         bool      `json:"isMatched"`
	Accuracy          float64   `json:"accuracy"`
	Status            string    `json:"status"`
	Note              string    `json:"note"`
	Threshold         int       `json:"threshold"`
	Timestamp         time.Time `json:"timestamp"`
}

type MatchRequest struct {
	HeadCount      int `json:"headCount" validate:"gte=0"`
	SignatureCount int `json:"signatureCount" validate:"gte=0"`
	// Threshold overrides the server threshold when set.
	Threshold *int `json:"threshold,omitempty" validate:"omitempty,gte=0"`
}

type MatchResponse struct {
	Difference int     `json:"difference"`
	IsMatched  bool    `json:"isMatched"`
	Accuracy   float64 `json:"accuracy"`
	Status     string  `json:"status"`
	Note       string  `json:"note"`
	Threshold  int     `json:"threshold"`
}

type ScanHallRequest struct {
	Image       []byte `json:"image" validate:"required"`
	SessionName string `json:"sessionName,omitempty" validate:"max=200"`
}

type ScanHallResponse struct {
	Record *CountRecord `json:"record"`
}

// MaxSignaturePages is the page limit of a ScanSignaturesRequest. Keep it in
// sync with the validate tag on Pages.
const MaxSignaturePages = 20

type ScanSignaturesRequest struct {
	Pages       [][]byte `json:"pages" validate:"required,min=1,max=20,dive,required"`
	SessionName string   `json:"sessionName,omitempty" validate:"max=200"`
}

type ScanSignaturesResponse struct {
	Record *SignatureRecord `json:"record"`
}

type CompareRequest struct {
	CountRecordId     string `json:"countRecordId" validate:"required"`
	SignatureRecordId string `json:"signatureRecordId" validate:"required"`
}

type CompareResponse struct {
	Verification *Verification `json:"verification"`
	Record       *CountRecord  `json:"record"`
}

type GetRecordRequest struct {
	Id string `json:"id" validate:"required"`
}

type GetRecordResponse struct {
	Record        *CountRecord    `json:"record"`
	Verifications []*Verification `json:"verifications"`
}

type ListRecordsRequest struct {
	Search string `json:"search,omitempty" validate:"max=200"`
	Sort   string `json:"sort,omitempty" validate:"omitempty,oneof=newest oldest highest lowest"`
	Limit  int    `json:"limit,omitempty" validate:"gte=0,lte=1000"`
}

type ListRecordsResponse struct {
	Records []*CountRecord `json:"records"`
}

type DeleteRecordRequest struct {
	Id string `json:"id" validate:"required"`
}

type DeleteRecordResponse struct{}

type GetStatsRequest struct{}

type GetStatsResponse struct {
	CountRecords     int     `json:"countRecords"`
	SignatureRecords int     `json:"signatureRecords"`
	Verifications    int     `json:"verifications"`
	Verified         int     `json:"verified"`
	MeanAccuracy     float64 `json:"meanAccuracy"`
}

type ShareVerificationRequest struct {
	VerificationId string `json:"verificationId" validate:"required"`
}

type ShareVerificationResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type GetSharedVerificationRequest struct {
	Token string `json:"token" validate:"required"`
}

type GetSharedVerificationResponse struct {
	Verification *Verification `json:"verification"`
}
