package payment_gateway

import (
	"context"
	"errors"
	"net/url"
	"os"
	"strings"
	"time"

	"paybridge-service/internal/app/config"
	"paybridge-service/internal/app/contracts"
	"paybridge-service/internal/pkg/constvars"
	"paybridge-service/internal/pkg/dto/requests"
	"paybridge-service/internal/pkg/dto/responses"
	"paybridge-service/internal/pkg/exceptions"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type payuClient struct {
	key            string
	engine         *HashEngine
	postserviceURL string
	httpClient     *resty.Client
	log            *zap.Logger
}

// NewPayUClient builds a client bound to one environment. Endpoint
// selection is decided here once; test and production hosts are never mixed
// within a client instance.
func NewPayUClient(cfg *config.PayU, engine *HashEngine, logger *zap.Logger) (contracts.PaymentGatewayClient, error) {
	postserviceURL := constvars.PayUTestPostserviceURL
	if cfg.Environment == constvars.PayUEnvironmentProduction {
		postserviceURL = constvars.PayUProductionPostserviceURL
	}

	timeout := time.Duration(cfg.TimeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &payuClient{
		key:            cfg.MerchantKey,
		engine:         engine,
		postserviceURL: postserviceURL,
		httpClient:     resty.New().SetTimeout(timeout),
		log:            logger,
	}, nil
}

// CheckoutEndpoint resolves the hosted payment page for an environment,
// used when building the redirect form.
func CheckoutEndpoint(environment string) string {
	if environment == constvars.PayUEnvironmentProduction {
		return constvars.PayUProductionCheckoutURL
	}
	return constvars.PayUTestCheckoutURL
}

type postserviceEnvelope struct {
	Status             json.RawMessage            `json:"status"`
	Message            json.RawMessage            `json:"msg"`
	RequestID          string                     `json:"request_id"`
	MihpayID           string                     `json:"mihpayid"`
	ErrorCode          string                     `json:"error_code"`
	TransactionDetails map[string]json.RawMessage `json:"transaction_details"`
}

func (c *payuClient) CheckStatus(ctx context.Context, txnid string) (*responses.GatewayStatus, error) {
	hash := c.engine.SignCommand(constvars.PayUCommandVerifyPayment, txnid)

	body, err := c.post(ctx, url.Values{
		"key":     {c.key},
		"command": {constvars.PayUCommandVerifyPayment},
		"var1":    {txnid},
		"hash":    {hash},
	})
	if err != nil {
		return nil, err
	}

	var envelope postserviceEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, exceptions.ErrGatewayBadResponse(err)
	}

	out := &responses.GatewayStatus{
		Message: decodeLooseString(envelope.Message),
	}

	// The per-transaction record is nested under a map keyed by txnid. A
	// txnid absent from that map means "not found", not a hard error.
	raw, ok := envelope.TransactionDetails[txnid]
	if !ok {
		out.NotFound = true
		return out, nil
	}

	var details map[string]interface{}
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, exceptions.ErrGatewayBadResponse(err)
	}

	out.TransactionDetails = details
	if status, ok := details["status"].(string); ok {
		out.Status = status
	}
	if mihpayid, ok := details["mihpayid"].(string); ok {
		out.MihpayID = mihpayid
	}
	out.Success = strings.EqualFold(out.Status, string(constvars.PayUTransactionStatusSuccess))

	return out, nil
}

func (c *payuClient) Refund(ctx context.Context, request *requests.GatewayRefund) (*responses.GatewayRefundResult, error) {
	hash := c.engine.SignCommand(constvars.PayUCommandCancelRefund, request.GatewayTransactionID)

	body, err := c.post(ctx, url.Values{
		"key":     {c.key},
		"command": {constvars.PayUCommandCancelRefund},
		"var1":    {request.GatewayTransactionID},
		"var2":    {request.TokenID},
		"var3":    {request.Amount},
		"hash":    {hash},
	})
	if err != nil {
		return nil, err
	}

	var envelope postserviceEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, exceptions.ErrGatewayBadResponse(err)
	}

	return &responses.GatewayRefundResult{
		Success:              decodeLooseStatus(envelope.Status),
		Message:              decodeLooseString(envelope.Message),
		RequestID:            envelope.RequestID,
		GatewayTransactionID: envelope.MihpayID,
		ErrorCode:            envelope.ErrorCode,
	}, nil
}

func (c *payuClient) post(ctx context.Context, form url.Values) ([]byte, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader(constvars.HeaderContentType, constvars.MIMEApplicationForm).
		SetFormDataFromValues(form).
		Post(c.postserviceURL)
	if err != nil {
		if isTimeout(err) {
			c.log.Warn("gateway request timed out",
				zap.String(constvars.LoggingEndpointKey, c.postserviceURL),
				zap.Error(err),
			)
			return nil, exceptions.ErrGatewayTimeout(err)
		}
		return nil, exceptions.ErrGatewayUnreachable(err)
	}
	return resp.Body(), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) {
		return timeoutErr.Timeout()
	}
	return errors.Is(err, os.ErrDeadlineExceeded)
}

// The gateway reports status as either the number 1/0 or a string; both
// shapes appear in production responses.
func decodeLooseStatus(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var asInt int
	if err := json.Unmarshal(raw, &asInt); err == nil {
		return asInt == 1
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString == "1" || strings.EqualFold(asString, "success")
	}
	return false
}

func decodeLooseString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	return strings.Trim(string(raw), `"`)
}
