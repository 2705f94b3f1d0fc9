package service

import (
	"connectrpc.com/connect"
)

func newClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts []connect.ClientOption) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{WithJSONCodec()}, opts...)
	return connect.NewClient[Req, Res](httpClient, baseURL+procedure, opts...)
}

// Each service client holds one typed unary client per procedure, called
// with CallUnary.

// PeopleServiceClient calls PeopleService over HTTP.
type PeopleServiceClient struct {
	ListPeople   *connect.Client[ListPeopleRequest, ListPeopleResponse]
	AddPerson    *connect.Client[AddPersonRequest, AddPersonResponse]
	UpdatePerson *connect.Client[UpdatePersonRequest, UpdatePersonResponse]
	RemovePerson *connect.Client[RemovePersonRequest, RemovePersonResponse]
}

// NewPeopleServiceClient creates a client for the server at baseURL.
func NewPeopleServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PeopleServiceClient {
	return &PeopleServiceClient{
		ListPeople:   newClient[ListPeopleRequest, ListPeopleResponse](httpClient, baseURL, PeopleServiceListPeopleProcedure, opts),
		AddPerson:    newClient[AddPersonRequest, AddPersonResponse](httpClient, baseURL, PeopleServiceAddPersonProcedure, opts),
		UpdatePerson: newClient[UpdatePersonRequest, UpdatePersonResponse](httpClient, baseURL, PeopleServiceUpdatePersonProcedure, opts),
		RemovePerson: newClient[RemovePersonRequest, RemovePersonResponse](httpClient, baseURL, PeopleServiceRemovePersonProcedure, opts),
	}
}

// ReceiptServiceClient calls ReceiptService over HTTP.
type ReceiptServiceClient struct {
	ListReceipts     *connect.Client[ListReceiptsRequest, ListReceiptsResponse]
	AddReceipt       *connect.Client[AddReceiptRequest, AddReceiptResponse]
	ImportExtraction *connect.Client[ImportExtractionRequest, ImportExtractionResponse]
	UpdateReceipt    *connect.Client[UpdateReceiptRequest, UpdateReceiptResponse]
	DeleteReceipt    *connect.Client[DeleteReceiptRequest, DeleteReceiptResponse]
	SetPayer         *connect.Client[SetPayerRequest, SetPayerResponse]
}

// NewReceiptServiceClient creates a client for the server at baseURL.
func NewReceiptServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ReceiptServiceClient {
	return &ReceiptServiceClient{
		ListReceipts:     newClient[ListReceiptsRequest, ListReceiptsResponse](httpClient, baseURL, ReceiptServiceListReceiptsProcedure, opts),
		AddReceipt:       newClient[AddReceiptRequest, AddReceiptResponse](httpClient, baseURL, ReceiptServiceAddReceiptProcedure, opts),
		ImportExtraction: newClient[ImportExtractionRequest, ImportExtractionResponse](httpClient, baseURL, ReceiptServiceImportExtractionProcedure, opts),
		UpdateReceipt:    newClient[UpdateReceiptRequest, UpdateReceiptResponse](httpClient, baseURL, ReceiptServiceUpdateReceiptProcedure, opts),
		DeleteReceipt:    newClient[DeleteReceiptRequest, DeleteReceiptResponse](httpClient, baseURL, ReceiptServiceDeleteReceiptProcedure, opts),
		SetPayer:         newClient[SetPayerRequest, SetPayerResponse](httpClient, baseURL, ReceiptServiceSetPayerProcedure, opts),
	}
}

// SplitServiceClient calls SplitService over HTTP.
type SplitServiceClient struct {
	ListSplits      *connect.Client[ListSplitsRequest, ListSplitsResponse]
	UpdateSplit     *connect.Client[UpdateSplitRequest, UpdateSplitResponse]
	CalculateSplits *connect.Client[CalculateSplitsRequest, CalculateSplitsResponse]
	SettleUp        *connect.Client[SettleUpRequest, SettleUpResponse]
	Export          *connect.Client[ExportRequest, ExportResponse]
}

// NewSplitServiceClient creates a client for the server at baseURL.
func NewSplitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SplitServiceClient {
	return &SplitServiceClient{
		ListSplits:      newClient[ListSplitsRequest, ListSplitsResponse](httpClient, baseURL, SplitServiceListSplitsProcedure, opts),
		UpdateSplit:     newClient[UpdateSplitRequest, UpdateSplitResponse](httpClient, baseURL, SplitServiceUpdateSplitProcedure, opts),
		CalculateSplits: newClient[CalculateSplitsRequest, CalculateSplitsResponse](httpClient, baseURL, SplitServiceCalculateSplitsProcedure, opts),
		SettleUp:        newClient[SettleUpRequest, SettleUpResponse](httpClient, baseURL, SplitServiceSettleUpProcedure, opts),
		Export:          newClient[ExportRequest, ExportResponse](httpClient, baseURL, SplitServiceExportProcedure, opts),
	}
}

// ModelServiceClient calls ModelService over HTTP.
type ModelServiceClient struct {
	ListModels        *connect.Client[ListModelsRequest, ListModelsResponse]
	GetPreferences    *connect.Client[GetPreferencesRequest, GetPreferencesResponse]
	SelectModel       *connect.Client[SelectModelRequest, SelectModelResponse]
	CheckAvailability *connect.Client[CheckAvailabilityRequest, CheckAvailabilityResponse]
}

// NewModelServiceClient creates a client for the server at baseURL.
func NewModelServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ModelServiceClient {
	return &ModelServiceClient{
		ListModels:        newClient[ListModelsRequest, ListModelsResponse](httpClient, baseURL, ModelServiceListModelsProcedure, opts),
		GetPreferences:    newClient[GetPreferencesRequest, GetPreferencesResponse](httpClient, baseURL, ModelServiceGetPreferencesProcedure, opts),
		SelectModel:       newClient[SelectModelRequest, SelectModelResponse](httpClient, baseURL, ModelServiceSelectModelProcedure, opts),
		CheckAvailability: newClient[CheckAvailabilityRequest, CheckAvailabilityResponse](httpClient, baseURL, ModelServiceCheckAvailabilityProcedure, opts),
	}
}
