package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	PeopleServiceName  = "receiptsplit.v1.PeopleService"
	ReceiptServiceName = "receiptsplit.v1.ReceiptService"
	SplitServiceName   = "receiptsplit.v1.SplitService"
	ModelServiceName   = "receiptsplit.v1.ModelService"
)

// Fully-qualified procedure names, as used in request paths.
const (
	PeopleServiceListPeopleProcedure   = "/" + PeopleServiceName + "/ListPeople"
	PeopleServiceAddPersonProcedure    = "/" + PeopleServiceName + "/AddPerson"
	PeopleServiceUpdatePersonProcedure = "/" + PeopleServiceName + "/UpdatePerson"
	PeopleServiceRemovePersonProcedure = "/" + PeopleServiceName + "/RemovePerson"

	ReceiptServiceListReceiptsProcedure     = "/" + ReceiptServiceName + "/ListReceipts"
	ReceiptServiceAddReceiptProcedure       = "/" + ReceiptServiceName + "/AddReceipt"
	ReceiptServiceImportExtractionProcedure = "/" + ReceiptServiceName + "/ImportExtraction"
	ReceiptServiceUpdateReceiptProcedure    = "/" + ReceiptServiceName + "/UpdateReceipt"
	ReceiptServiceDeleteReceiptProcedure    = "/" + ReceiptServiceName + "/DeleteReceipt"
	ReceiptServiceSetPayerProcedure         = "/" + ReceiptServiceName + "/SetPayer"

	SplitServiceListSplitsProcedure      = "/" + SplitServiceName + "/ListSplits"
	SplitServiceUpdateSplitProcedure     = "/" + SplitServiceName + "/UpdateSplit"
	SplitServiceCalculateSplitsProcedure = "/" + SplitServiceName + "/CalculateSplits"
	SplitServiceSettleUpProcedure        = "/" + SplitServiceName + "/SettleUp"
	SplitServiceExportProcedure          = "/" + SplitServiceName + "/Export"

	ModelServiceListModelsProcedure        = "/" + ModelServiceName + "/ListModels"
	ModelServiceGetPreferencesProcedure    = "/" + ModelServiceName + "/GetPreferences"
	ModelServiceSelectModelProcedure       = "/" + ModelServiceName + "/SelectModel"
	ModelServiceCheckAvailabilityProcedure = "/" + ModelServiceName + "/CheckAvailability"
)

func handle[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{WithJSONCodec()}, opts...)
}

// NewPeopleServiceHandler builds an HTTP handler for PeopleService. It
// returns the path on which to mount the handler and the handler itself.
func NewPeopleServiceHandler(svc *PeopleService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, PeopleServiceListPeopleProcedure, svc.ListPeople, opts)
	handle(mux, PeopleServiceAddPersonProcedure, svc.AddPerson, opts)
	handle(mux, PeopleServiceUpdatePersonProcedure, svc.UpdatePerson, opts)
	handle(mux, PeopleServiceRemovePersonProcedure, svc.RemovePerson, opts)
	return "/" + PeopleServiceName + "/", mux
}

// NewReceiptServiceHandler builds an HTTP handler for ReceiptService.
func NewReceiptServiceHandler(svc *ReceiptService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, ReceiptServiceListReceiptsProcedure, svc.ListReceipts, opts)
	handle(mux, ReceiptServiceAddReceiptProcedure, svc.AddReceipt, opts)
	handle(mux, ReceiptServiceImportExtractionProcedure, svc.ImportExtraction, opts)
	handle(mux, ReceiptServiceUpdateReceiptProcedure, svc.UpdateReceipt, opts)
	handle(mux, ReceiptServiceDeleteReceiptProcedure, svc.DeleteReceipt, opts)
	handle(mux, ReceiptServiceSetPayerProcedure, svc.SetPayer, opts)
	return "/" + ReceiptServiceName + "/", mux
}

// NewSplitServiceHandler builds an HTTP handler for SplitService.
func NewSplitServiceHandler(svc *SplitService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, SplitServiceListSplitsProcedure, svc.ListSplits, opts)
	handle(mux, SplitServiceUpdateSplitProcedure, svc.UpdateSplit, opts)
	handle(mux, SplitServiceCalculateSplitsProcedure, svc.CalculateSplits, opts)
	handle(mux, SplitServiceSettleUpProcedure, svc.SettleUp, opts)
	handle(mux, SplitServiceExportProcedure, svc.Export, opts)
	return "/" + SplitServiceName + "/", mux
}

// NewModelServiceHandler builds an HTTP handler for ModelService.
func NewModelServiceHandler(svc *ModelService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, ModelServiceListModelsProcedure, svc.ListModels, opts)
	handle(mux, ModelServiceGetPreferencesProcedure, svc.GetPreferences, opts)
	handle(mux, ModelServiceSelectModelProcedure, svc.SelectModel, opts)
	handle(mux, ModelServiceCheckAvailabilityProcedure, svc.CheckAvailability, opts)
	return "/" + ModelServiceName + "/", mux
}
