// Package dto defines data transfer objects for the data.go.kr stock price responses.
package dto

import "encoding/json"

// StockPriceInfoResponse is the envelope returned by getStockPriceInfo.
type StockPriceInfoResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			// Items is an object when rows exist and an empty string otherwise.
			Items      json.RawMessage `json:"items"`
			NumOfRows  int             `json:"numOfRows"`
			PageNo     int             `json:"pageNo"`
			TotalCount int             `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

// Items wraps the item field, which is a single object for one row and an
// array for several.
type Items struct {
	Item json.RawMessage `json:"item"`
}

// PriceItem is one row of getStockPriceInfo.
type PriceItem struct {
	BasDt      string `json:"basDt"`      // 기준일자 YYYYMMDD
	SrtnCd     string `json:"srtnCd"`     // 단축코드
	IsinCd     string `json:"isinCd"`     // ISIN
	ItmsNm     string `json:"itmsNm"`     // 종목명
	MrktCtg    string `json:"mrktCtg"`    // KOSPI / KOSDAQ / KONEX
	Clpr       string `json:"clpr"`       // 종가
	Vs         string `json:"vs"`         // 대비
	FltRt      string `json:"fltRt"`      // 등락률
	Mkp        string `json:"mkp"`        // 시가
	Hipr       string `json:"hipr"`       // 고가
	Lopr       string `json:"lopr"`       // 저가
	Trqu       string `json:"trqu"`       // 거래량
	TrPrc      string `json:"trPrc"`      // 거래대금
	LstgStCnt  string `json:"lstgStCnt"`  // 상장주식수
	MrktTotAmt string `json:"mrktTotAmt"` // 시가총액
}
