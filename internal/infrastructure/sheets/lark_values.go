package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larksheets "github.com/larksuite/oapi-sdk-go/v3/service/sheets/v3"
)

const (
	valuesPath       = "/open-apis/sheets/v2/spreadsheets/:spreadsheet_token/values"
	valuesRangePath  = "/open-apis/sheets/v2/spreadsheets/:spreadsheet_token/values/:range"
	valuesAppendPath = "/open-apis/sheets/v2/spreadsheets/:spreadsheet_token/values_append"
)

// valuesAPI is the slice of the Lark Sheets API the adapter needs
type valuesAPI interface {
	FirstSheetID(ctx context.Context, spreadsheetToken string) (string, error)
	ReadRange(ctx context.Context, spreadsheetToken, rng string) ([][]interface{}, error)
	WriteRange(ctx context.Context, spreadsheetToken, rng string, values [][]interface{}) error
	AppendRows(ctx context.Context, spreadsheetToken, rng string, values [][]interface{}) error
}

// larkValuesClient calls the sheets v2 values endpoints through the SDK's raw
// request path, which handles tenant token refresh
type larkValuesClient struct {
	client *lark.Client
}

func newLarkValuesClient(client *lark.Client) *larkValuesClient {
	return &larkValuesClient{client: client}
}

type valueRange struct {
	Range  string          `json:"range"`
	Values [][]interface{} `json:"values"`
}

type valuesEnvelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		ValueRange valueRange `json:"valueRange"`
	} `json:"data"`
}

// FirstSheetID resolves the worksheet with the lowest index
func (c *larkValuesClient) FirstSheetID(ctx context.Context, spreadsheetToken string) (string, error) {
	req := larksheets.NewQuerySpreadsheetSheetReqBuilder().
		SpreadsheetToken(spreadsheetToken).
		Build()

	resp, err := c.client.Sheets.SpreadsheetSheet.Query(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to query sheets: %w", err)
	}
	if !resp.Success() {
		return "", fmt.Errorf("API error: code=%d, msg=%s", resp.Code, resp.Msg)
	}
	if resp.Data == nil || len(resp.Data.Sheets) == 0 {
		return "", fmt.Errorf("spreadsheet %s has no worksheets", spreadsheetToken)
	}

	var (
		firstID    string
		firstIndex = -1
	)
	for _, sheet := range resp.Data.Sheets {
		if sheet == nil || sheet.SheetId == nil {
			continue
		}
		index := 0
		if sheet.Index != nil {
			index = *sheet.Index
		}
		if firstIndex == -1 || index < firstIndex {
			firstIndex = index
			firstID = *sheet.SheetId
		}
	}
	if firstID == "" {
		return "", fmt.Errorf("spreadsheet %s has no worksheets", spreadsheetToken)
	}
	return firstID, nil
}

// ReadRange returns the cell values of rng
func (c *larkValuesClient) ReadRange(ctx context.Context, spreadsheetToken, rng string) ([][]interface{}, error) {
	env, err := c.do(ctx, &larkcore.ApiReq{
		HttpMethod: http.MethodGet,
		ApiPath:    valuesRangePath,
		PathParams: larkcore.PathParams{
			"spreadsheet_token": spreadsheetToken,
			"range":             rng,
		},
		QueryParams:               larkcore.QueryParams{},
		SupportedAccessTokenTypes: []larkcore.AccessTokenType{larkcore.AccessTokenTypeTenant},
	})
	if err != nil {
		return nil, err
	}
	return env.Data.ValueRange.Values, nil
}

// WriteRange overwrites rng with values
func (c *larkValuesClient) WriteRange(ctx context.Context, spreadsheetToken, rng string, values [][]interface{}) error {
	_, err := c.do(ctx, &larkcore.ApiReq{
		HttpMethod: http.MethodPut,
		ApiPath:    valuesPath,
		Body: map[string]interface{}{
			"valueRange": valueRange{Range: rng, Values: values},
		},
		PathParams: larkcore.PathParams{
			"spreadsheet_token": spreadsheetToken,
		},
		QueryParams:               larkcore.QueryParams{},
		SupportedAccessTokenTypes: []larkcore.AccessTokenType{larkcore.AccessTokenTypeTenant},
	})
	return err
}

// AppendRows inserts values after the last non-empty row of rng
func (c *larkValuesClient) AppendRows(ctx context.Context, spreadsheetToken, rng string, values [][]interface{}) error {
	_, err := c.do(ctx, &larkcore.ApiReq{
		HttpMethod: http.MethodPost,
		ApiPath:    valuesAppendPath,
		Body: map[string]interface{}{
			"valueRange": valueRange{Range: rng, Values: values},
		},
		PathParams: larkcore.PathParams{
			"spreadsheet_token": spreadsheetToken,
		},
		QueryParams: larkcore.QueryParams{
			"insertDataOption": []string{"INSERT_ROWS"},
		},
		SupportedAccessTokenTypes: []larkcore.AccessTokenType{larkcore.AccessTokenTypeTenant},
	})
	return err
}

func (c *larkValuesClient) do(ctx context.Context, req *larkcore.ApiReq) (*valuesEnvelope, error) {
	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", req.HttpMethod, req.ApiPath, err)
	}

	var env valuesEnvelope
	if err := json.Unmarshal(resp.RawBody, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	if env.Code != 0 {
		return nil, fmt.Errorf("API error: code=%d, msg=%s", env.Code, env.Msg)
	}
	return &env, nil
}
