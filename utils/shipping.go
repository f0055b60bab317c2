package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/emporio-digital/storefront/config"
	"github.com/emporio-digital/storefront/models"
)

const shippingQuoteTimeout = 10 * time.Second

type shippingQuoteRequest struct {
	CEP   string              `json:"cep"`
	Items []shippingQuoteItem `json:"items"`
}

type shippingQuoteItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// QuoteShipping asks the shipping oracle for the available options to a CEP.
// The call is bounded by shippingQuoteTimeout; a slow or unreachable oracle
// surfaces as an external-service error, never a hang. Declared as a variable
// so tests and local setups can stub the network call.
var QuoteShipping = func(ctx context.Context, cep string, items []models.CartItem) ([]ShippingOption, error) {
	payload := shippingQuoteRequest{CEP: cep}
	for _, item := range items {
		payload.Items = append(payload.Items, shippingQuoteItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(err, "failed to encode shipping quote request")
	}

	ctx, cancel := context.WithTimeout(ctx, shippingQuoteTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		config.AppConfig.ShippingAPIURL+"/quote", bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(err, "failed to build shipping quote request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, ExternalServiceAppError("Shipping service is unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ExternalServiceAppError("Shipping service is unavailable",
			fmt.Errorf("shipping quote returned status %d", resp.StatusCode))
	}

	var options []ShippingOption
	if err := json.NewDecoder(resp.Body).Decode(&options); err != nil {
		return nil, ExternalServiceAppError("Shipping service returned an invalid quote", err)
	}
	if len(options) == 0 {
		return nil, ExternalServiceAppError("Shipping service returned no options for this address", nil)
	}
	return options, nil
}
