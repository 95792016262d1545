package momo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

// CamPayGateway implements Gateway against the CamPay collection API.
type CamPayGateway struct {
	BaseURL     string
	AppUsername string
	AppPassword string
	client      *http.Client
}

func NewCamPayGateway(baseURL, appUsername, appPassword string) *CamPayGateway {
	if baseURL == "" {
		baseURL = "https://demo.campay.net"
	}
	return &CamPayGateway{
		BaseURL:     baseURL,
		AppUsername: appUsername,
		AppPassword: appPassword,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type campayTokenReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type campayTokenResp struct {
	Token string `json:"token"`
}

// getToken fetches a fresh access token (CamPay tokens are short-lived;
// one per transaction keeps this stateless).
func (g *CamPayGateway) getToken(ctx context.Context) (string, error) {
	body, _ := json.Marshal(campayTokenReq{Username: g.AppUsername, Password: g.AppPassword})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/api/token/", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("campay token: %d", resp.StatusCode)
	}
	var out campayTokenResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("campay: empty token")
	}
	return out.Token, nil
}

type campayCollectReq struct {
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
	From              string `json:"from"`
	Description       string `json:"description"`
	ExternalReference string `json:"external_reference"`
}

type campayCollectResp struct {
	Reference string `json:"reference"`
	UssdCode  string `json:"ussd_code"`
	Operator  string `json:"operator"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

func (g *CamPayGateway) Collect(ctx context.Context, cr CollectRequest) (*CollectResult, error) {
	token, err := g.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("campay auth: %w", err)
	}
	payload := campayCollectReq{
		Amount:            strconv.FormatInt(cr.AmountXAF, 10),
		Currency:          "XAF",
		From:              cr.Phone,
		Description:       cr.Description,
		ExternalReference: cr.OrderRef,
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/api/collect/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+token)
	log.Printf("[CAMPAY] POST /api/collect/ order_ref=%s from=%s amount=%d", cr.OrderRef, cr.Phone, cr.AmountXAF)
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	log.Printf("[CAMPAY] collect response status=%d body=%s", resp.StatusCode, string(respBody))
	var out campayCollectResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("campay collect decode: %w", err)
	}
	if resp.StatusCode != http.StatusOK || out.Reference == "" {
		msg := out.Message
		if msg == "" {
			msg = fmt.Sprintf("collect rejected with status %d", resp.StatusCode)
		}
		return &CollectResult{Success: false, Error: msg}, nil
	}
	return &CollectResult{
		Success:   true,
		Reference: out.Reference,
		UssdCode:  out.UssdCode,
	}, nil
}

type campayStatusResp struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
}

func (g *CamPayGateway) CheckStatus(ctx context.Context, reference string) (Status, error) {
	token, err := g.getToken(ctx)
	if err != nil {
		return StatusUnknown, fmt.Errorf("campay auth: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/api/transaction/"+reference+"/", nil)
	if err != nil {
		return StatusUnknown, err
	}
	req.Header.Set("Authorization", "Token "+token)
	resp, err := g.client.Do(req)
	if err != nil {
		return StatusUnknown, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return StatusUnknown, fmt.Errorf("campay status: %d", resp.StatusCode)
	}
	var out campayStatusResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return StatusUnknown, err
	}
	return ParseStatus(out.Status), nil
}
