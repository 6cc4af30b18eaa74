package moonshot

import (
	"context"
	"encoding/json"
	"fmt"
)

// Balance 账户余额，单位为元
type Balance struct {
	AvailableBalance float64 `json:"available_balance"`
	VoucherBalance   float64 `json:"voucher_balance"`
	CashBalance      float64 `json:"cash_balance"`
}

type BalanceQuerier interface {
	Balance(ctx context.Context) (*Balance, error)
}

type balanceResponse struct {
	Code  int `json:"code"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
	Data   Balance `json:"data"`
	SCode  string  `json:"scode"`
	Status bool    `json:"status"`
}

// Balance 查询账户余额
func (m *Moonshot) Balance(ctx context.Context) (*Balance, error) {
	resp, err := m.resty.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+m.conf.APIKey).
		Get(m.server + "/users/me/balance")
	if err != nil {
		return nil, err
	}

	var res balanceResponse
	if err := json.Unmarshal(resp.Body(), &res); err != nil {
		if resp.IsError() {
			return nil, fmt.Errorf("query balance failed: [%d] %s", resp.StatusCode(), resp.String())
		}

		return nil, err
	}

	if resp.IsError() || !res.Status {
		if res.Error != nil {
			return nil, fmt.Errorf("query balance failed: [%d] %s", resp.StatusCode(), res.Error.Message)
		}

		return nil, fmt.Errorf("query balance failed: [%d] %s", resp.StatusCode(), resp.String())
	}

	return &res.Data, nil
}
