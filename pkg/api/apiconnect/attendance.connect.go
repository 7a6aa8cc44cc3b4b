// Package apiconnect wires the AttendanceService messages to Connect handlers
// and clients.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/hallcount/pkg/api"
)

// AttendanceServiceName is the fully-qualified name of the AttendanceService service.
const AttendanceServiceName = "hallcount.v1.AttendanceService"

const (
	AttendanceServiceMatchProcedure                 = "/hallcount.v1.AttendanceService/Match"
	AttendanceServiceScanHallProcedure              = "/hallcount.v1.AttendanceService/ScanHall"
	AttendanceServiceScanSignaturesProcedure        = "/hallcount.v1.AttendanceService/ScanSignatures"
	AttendanceServiceCompareProcedure               = "/hallcount.v1.AttendanceService/Compare"
	AttendanceServiceGetRecordProcedure             = "/hallcount.v1.AttendanceService/GetRecord"
	AttendanceServiceListRecordsProcedure           = "/hallcount.v1.AttendanceService/ListRecords"
	AttendanceServiceDeleteRecordProcedure          = "/hallcount.v1.AttendanceService/DeleteRecord"
	AttendanceServiceGetStatsProcedure              = "/hallcount.v1.AttendanceService/GetStats"
	AttendanceServiceShareVerificationProcedure     = "/hallcount.v1.AttendanceService/ShareVerification"
	AttendanceServiceGetSharedVerificationProcedure = "/hallcount.v1.AttendanceService/GetSharedVerification"
)

// AttendanceServiceClient is a client for the hallcount.v1.AttendanceService service.
type AttendanceServiceClient interface {
	Match(context.Context, *connect.Request[api.MatchRequest]) (*connect.Response[api.MatchResponse], error)
	ScanHall(context.Context, *connect.Request[api.ScanHallRequest]) (*connect.Response[api.ScanHallResponse], error)
	ScanSignatures(context.Context, *connect.Request[api.ScanSignaturesRequest]) (*connect.Response[api.ScanSignaturesResponse], error)
	Compare(context.Context, *connect.Request[api.CompareRequest]) (*connect.Response[api.CompareResponse], error)
	GetRecord(context.Context, *connect.Request[api.GetRecordRequest]) (*connect.Response[api.GetRecordResponse], error)
	ListRecords(context.Context, *connect.Request[api.ListRecordsRequest]) (*connect.Response[api.ListRecordsResponse], error)
	DeleteRecord(context.Context, *connect.Request[api.DeleteRecordRequest]) (*connect.Response[api.DeleteRecordResponse], error)
	GetStats(context.Context, *connect.Request[api.GetStatsRequest]) (*connect.Response[api.GetStatsResponse], error)
	ShareVerification(context.Context, *connect.Request[api.ShareVerificationRequest]) (*connect.Response[api.ShareVerificationResponse], error)
	GetSharedVerification(context.Context, *connect.Request[api.GetSharedVerificationRequest]) (*connect.Response[api.GetSharedVerificationResponse], error)
}

// NewAttendanceServiceClient constructs a client for the hallcount.v1.AttendanceService
// service. The JSON codec is always used.
//
// The URL supplied here should be the base URL for the Connect server (for
// example, http://localhost:8080).
func NewAttendanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AttendanceServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &attendanceServiceClient{
		match:                 connect.NewClient[api.MatchRequest, api.MatchResponse](httpClient, baseURL+AttendanceServiceMatchProcedure, opts...),
		scanHall:              connect.NewClient[api.ScanHallRequest, api.ScanHallResponse](httpClient, baseURL+AttendanceServiceScanHallProcedure, opts...),
		scanSignatures:        connect.NewClient[api.ScanSignaturesRequest, api.ScanSignaturesResponse](httpClient, baseURL+AttendanceServiceScanSignaturesProcedure, opts...),
		compare:               connect.NewClient[api.CompareRequest, api.CompareResponse](httpClient, baseURL+AttendanceServiceCompareProcedure, opts...),
		getRecord:             connect.NewClient[api.GetRecordRequest, api.GetRecordResponse](httpClient, baseURL+AttendanceServiceGetRecordProcedure, opts...),
		listRecords:           connect.NewClient[api.ListRecordsRequest, api.ListRecordsResponse](httpClient, baseURL+AttendanceServiceListRecordsProcedure, opts...),
		deleteRecord:          connect.NewClient[api.DeleteRecordRequest, api.DeleteRecordResponse](httpClient, baseURL+AttendanceServiceDeleteRecordProcedure, opts...),
		getStats:              connect.NewClient[api.GetStatsRequest, api.GetStatsResponse](httpClient, baseURL+AttendanceServiceGetStatsProcedure, opts...),
		shareVerification:     connect.NewClient[api.ShareVerificationRequest, api.ShareVerificationResponse](httpClient, baseURL+AttendanceServiceShareVerificationProcedure, opts...),
		getSharedVerification: connect.NewClient[api.GetSharedVerificationRequest, api.GetSharedVerificationResponse](httpClient, baseURL+AttendanceServiceGetSharedVerificationProcedure, opts...),
	}
}

type attendanceServiceClient struct {
	match                 *connect.Client[api.MatchRequest, api.MatchResponse]
	scanHall              *connect.Client[api.ScanHallRequest, api.ScanHallResponse]
	scanSignatures        *connect.Client[api.ScanSignaturesRequest, api.ScanSignaturesResponse]
	compare               *connect.Client[api.CompareRequest, api.CompareResponse]
	getRecord             *connect.Client[api.GetRecordRequest, api.GetRecordResponse]
	listRecords           *connect.Client[api.ListRecordsRequest, api.ListRecordsResponse]
	deleteRecord          *connect.Client[api.DeleteRecordRequest, api.DeleteRecordResponse]
	getStats              *connect.Client[api.GetStatsRequest, api.GetStatsResponse]
	shareVerification     *connect.Client[api.ShareVerificationRequest, api.ShareVerificationResponse]
	getSharedVerification *connect.Client[api.GetSharedVerificationRequest, api.GetSharedVerificationResponse]
}

func (c *attendanceServiceClient) Match(ctx context.Context, req *connect.Request[api.MatchRequest]) (*connect.Response[api.MatchResponse], error) {
	return c.match.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) ScanHall(ctx context.Context, req *connect.Request[api.ScanHallRequest]) (*connect.Response[api.ScanHallResponse], error) {
	return c.scanHall.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) ScanSignatures(ctx context.Context, req *connect.Request[api.ScanSignaturesRequest]) (*connect.Response[api.ScanSignaturesResponse], error) {
	return c.scanSignatures.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) Compare(ctx context.Context, req *connect.Request[api.CompareRequest]) (*connect.Response[api.CompareResponse], error) {
	return c.compare.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) GetRecord(ctx context.Context, req *connect.Request[api.GetRecordRequest]) (*connect.Response[api.GetRecordResponse], error) {
	return c.getRecord.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) ListRecords(ctx context.Context, req *connect.Request[api.ListRecordsRequest]) (*connect.Response[api.ListRecordsResponse], error) {
	return c.listRecords.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) DeleteRecord(ctx context.Context, req *connect.Request[api.DeleteRecordRequest]) (*connect.Response[api.DeleteRecordResponse], error) {
	return c.deleteRecord.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) GetStats(ctx context.Context, req *connect.Request[api.GetStatsRequest]) (*connect.Response[api.GetStatsResponse], error) {
	return c.getStats.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) ShareVerification(ctx context.Context, req *connect.Request[api.ShareVerificationRequest]) (*connect.Response[api.ShareVerificationResponse], error) {
	return c.shareVerification.CallUnary(ctx, req)
}

func (c *attendanceServiceClient) GetSharedVerification(ctx context.Context, req *connect.Request[api.GetSharedVerificationRequest]) (*connect.Response[api.GetSharedVerificationResponse], error) {
	return c.getSharedVerification.CallUnary(ctx, req)
}

// AttendanceServiceHandler is an implementation of the hallcount.v1.AttendanceService service.
type AttendanceServiceHandler interface {
	Match(context.Context, *connect.Request[api.MatchRequest]) (*connect.Response[api.MatchResponse], error)
	ScanHall(context.Context, *connect.Request[api.ScanHallRequest]) (*connect.Response[api.ScanHallResponse], error)
	ScanSignatures(context.Context, *connect.Request[api.ScanSignaturesRequest]) (*connect.Response[api.ScanSignaturesResponse], error)
	Compare(context.Context, *connect.Request[api.CompareRequest]) (*connect.Response[api.CompareResponse], error)
	GetRecord(context.Context, *connect.Request[api.GetRecordRequest]) (*connect.Response[api.GetRecordResponse], error)
	ListRecords(context.Context, *connect.Request[api.ListRecordsRequest]) (*connect.Response[api.ListRecordsResponse], error)
	DeleteRecord(context.Context, *connect.Request[api.DeleteRecordRequest]) (*connect.Response[api.DeleteRecordResponse], error)
	GetStats(context.Context, *connect.Request[api.GetStatsRequest]) (*connect.Response[api.GetStatsResponse], error)
	ShareVerification(context.Context, *connect.Request[api.ShareVerificationRequest]) (*connect.Response[api.ShareVerificationResponse], error)
	GetSharedVerification(context.Context, *connect.Request[api.GetSharedVerificationRequest]) (*connect.Response[api.GetSharedVerificationResponse], error)
}

// NewAttendanceServiceHandler builds an HTTP handler from the service implementation. It
// returns the path on which to mount the handler and the handler itself.
func NewAttendanceServiceHandler(svc AttendanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(AttendanceServiceMatchProcedure, connect.NewUnaryHandler(AttendanceServiceMatchProcedure, svc.Match, opts...))
	mux.Handle(AttendanceServiceScanHallProcedure, connect.NewUnaryHandler(AttendanceServiceScanHallProcedure, svc.ScanHall, opts...))
	mux.Handle(AttendanceServiceScanSignaturesProcedure, connect.NewUnaryHandler(AttendanceServiceScanSignaturesProcedure, svc.ScanSignatures, opts...))
	mux.Handle(AttendanceServiceCompareProcedure, connect.NewUnaryHandler(AttendanceServiceCompareProcedure, svc.Compare, opts...))
	mux.Handle(AttendanceServiceGetRecordProcedure, connect.NewUnaryHandler(AttendanceServiceGetRecordProcedure, svc.GetRecord, opts...))
	mux.Handle(AttendanceServiceListRecordsProcedure, connect.NewUnaryHandler(AttendanceServiceListRecordsProcedure, svc.ListRecords, opts...))
	mux.Handle(AttendanceServiceDeleteRecordProcedure, connect.NewUnaryHandler(AttendanceServiceDeleteRecordProcedure, svc.DeleteRecord, opts...))
	mux.Handle(AttendanceServiceGetStatsProcedure, connect.NewUnaryHandler(AttendanceServiceGetStatsProcedure, svc.GetStats, opts...))
	mux.Handle(AttendanceServiceShareVerificationProcedure, connect.NewUnaryHandler(AttendanceServiceShareVerificationProcedure, svc.ShareVerification, opts...))
	mux.Handle(AttendanceServiceGetSharedVerificationProcedure, connect.NewUnaryHandler(AttendanceServiceGetSharedVerificationProcedure, svc.GetSharedVerification, opts...))

	return "/" + AttendanceServiceName + "/", mux
}

// UnimplementedAttendanceServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedAttendanceServiceHandler struct{}

func unimplemented(procedure string) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New(strings.TrimPrefix(procedure, "/")+" is not implemented"))
}

func (UnimplementedAttendanceServiceHandler) Match(context.Context, *connect.Request[api.MatchRequest]) (*connect.Response[api.MatchResponse], error) {
	return nil, unimplemented(AttendanceServiceMatchProcedure)
}

func (UnimplementedAttendanceServiceHandler) ScanHall(context.Context, *connect.Request[api.ScanHallRequest]) (*connect.Response[api.ScanHallResponse], error) {
	return nil, unimplemented(AttendanceServiceScanHallProcedure)
}

func (UnimplementedAttendanceServiceHandler) ScanSignatures(context.Context, *connect.Request[api.ScanSignaturesRequest]) (*connect.Response[api.ScanSignaturesResponse], error) {
	return nil, unimplemented(AttendanceServiceScanSignaturesProcedure)
}

func (UnimplementedAttendanceServiceHandler) Compare(context.Context, *connect.Request[api.CompareRequest]) (*connect.Response[api.CompareResponse], error) {
	return nil, unimplemented(AttendanceServiceCompareProcedure)
}

func (UnimplementedAttendanceServiceHandler) GetRecord(context.Context, *connect.Request[api.GetRecordRequest]) (*connect.Response[api.GetRecordResponse], error) {
	return nil, unimplemented(AttendanceServiceGetRecordProcedure)
}

func (UnimplementedAttendanceServiceHandler) ListRecords(context.Context, *connect.Request[api.ListRecordsRequest]) (*connect.Response[api.ListRecordsResponse], error) {
	return nil, unimplemented(AttendanceServiceListRecordsProcedure)
}

func (UnimplementedAttendanceServiceHandler) DeleteRecord(context.Context, *connect.Request[api.DeleteRecordRequest]) (*connect.Response[api.DeleteRecordResponse], error) {
	return nil, unimplemented(AttendanceServiceDeleteRecordProcedure)
}

func (UnimplementedAttendanceServiceHandler) GetStats(context.Context, *connect.Request[api.GetStatsRequest]) (*connect.Response[api.GetStatsResponse], error) {
	return nil, unimplemented(AttendanceServiceGetStatsProcedure)
}

func (UnimplementedAttendanceServiceHandler) ShareVerification(context.Context, *connect.Request[api.ShareVerificationRequest]) (*connect.Response[api.ShareVerificationResponse], error) {
	return nil, unimplemented(AttendanceServiceShareVerificationProcedure)
}

func (UnimplementedAttendanceServiceHandler) GetSharedVerification(context.Context, *connect.Request[api.GetSharedVerificationRequest]) (*connect.Response[api.GetSharedVerificationResponse], error) {
	return nil, unimplemented(AttendanceServiceGetSharedVerificationProcedure)
}
