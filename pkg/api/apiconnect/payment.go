package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/Mdazar123/billsplitr/pkg/api"
)

// PaymentServiceName is the fully-qualified name of the PaymentService service.
const PaymentServiceName = "billsplitr.v1.PaymentService"

const (
	PaymentServiceSubmitPaymentProcedure = "/billsplitr.v1.PaymentService/SubmitPayment"
	PaymentServiceAcceptPaymentProcedure = "/billsplitr.v1.PaymentService/AcceptPayment"
	PaymentServiceListPaymentsProcedure  = "/billsplitr.v1.PaymentService/ListPayments"
	PaymentServiceGetPaymentQRProcedure  = "/billsplitr.v1.PaymentService/GetPaymentQR"
)

// PaymentServiceClient is a client for the billsplitr.v1.PaymentService service.
type PaymentServiceClient interface {
	SubmitPayment(context.Context, *connect.Request[api.SubmitPaymentRequest]) (*connect.Response[api.SubmitPaymentResponse], error)
	AcceptPayment(context.Context, *connect.Request[api.AcceptPaymentRequest]) (*connect.Response[api.AcceptPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	GetPaymentQR(context.Context, *connect.Request[api.GetPaymentQRRequest]) (*connect.Response[api.GetPaymentQRResponse], error)
}

// NewPaymentServiceClient constructs a client for the billsplitr.v1.PaymentService service.
func NewPaymentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PaymentServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &paymentServiceClient{
		submitPayment: connect.NewClient[api.SubmitPaymentRequest, api.SubmitPaymentResponse](httpClient, baseURL+PaymentServiceSubmitPaymentProcedure, opts...),
		acceptPayment: connect.NewClient[api.AcceptPaymentRequest, api.AcceptPaymentResponse](httpClient, baseURL+PaymentServiceAcceptPaymentProcedure, opts...),
		listPayments:  connect.NewClient[api.ListPaymentsRequest, api.ListPaymentsResponse](httpClient, baseURL+PaymentServiceListPaymentsProcedure, opts...),
		getPaymentQR:  connect.NewClient[api.GetPaymentQRRequest, api.GetPaymentQRResponse](httpClient, baseURL+PaymentServiceGetPaymentQRProcedure, opts...),
	}
}

type paymentServiceClient struct {
	submitPayment *connect.Client[api.SubmitPaymentRequest, api.SubmitPaymentResponse]
	acceptPayment *connect.Client[api.AcceptPaymentRequest, api.AcceptPaymentResponse]
	listPayments  *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
	getPaymentQR  *connect.Client[api.GetPaymentQRRequest, api.GetPaymentQRResponse]
}

func (c *paymentServiceClient) SubmitPayment(ctx context.Context, req *connect.Request[api.SubmitPaymentRequest]) (*connect.Response[api.SubmitPaymentResponse], error) {
	return c.submitPayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) AcceptPayment(ctx context.Context, req *connect.Request[api.AcceptPaymentRequest]) (*connect.Response[api.AcceptPaymentResponse], error) {
	return c.acceptPayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

func (c *paymentServiceClient) GetPaymentQR(ctx context.Context, req *connect.Request[api.GetPaymentQRRequest]) (*connect.Response[api.GetPaymentQRResponse], error) {
	return c.getPaymentQR.CallUnary(ctx, req)
}

// PaymentServiceHandler is implemented by service.PaymentService.
type PaymentServiceHandler interface {
	SubmitPayment(context.Context, *connect.Request[api.SubmitPaymentRequest]) (*connect.Response[api.SubmitPaymentResponse], error)
	AcceptPayment(context.Context, *connect.Request[api.AcceptPaymentRequest]) (*connect.Response[api.AcceptPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	GetPaymentQR(context.Context, *connect.Request[api.GetPaymentQRRequest]) (*connect.Response[api.GetPaymentQRResponse], error)
}

// NewPaymentServiceHandler builds an HTTP handler from the service implementation.
func NewPaymentServiceHandler(svc PaymentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	submitPaymentHandler := connect.NewUnaryHandler(PaymentServiceSubmitPaymentProcedure, svc.SubmitPayment, opts...)
	acceptPaymentHandler := connect.NewUnaryHandler(PaymentServiceAcceptPaymentProcedure, svc.AcceptPayment, opts...)
	listPaymentsHandler := connect.NewUnaryHandler(PaymentServiceListPaymentsProcedure, svc.ListPayments, opts...)
	getPaymentQRHandler := connect.NewUnaryHandler(PaymentServiceGetPaymentQRProcedure, svc.GetPaymentQR, opts...)
	return "/" + PaymentServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PaymentServiceSubmitPaymentProcedure:
			submitPaymentHandler.ServeHTTP(w, r)
		case PaymentServiceAcceptPaymentProcedure:
			acceptPaymentHandler.ServeHTTP(w, r)
		case PaymentServiceListPaymentsProcedure:
			listPaymentsHandler.ServeHTTP(w, r)
		case PaymentServiceGetPaymentQRProcedure:
			getPaymentQRHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
