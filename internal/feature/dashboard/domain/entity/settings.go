// Package entity はダッシュボードの表示設定を表す型を定義します。
package entity

import (
	"errors"
	"strings"
)

// TimeRange は取得する履歴の期間です。
type TimeRange string

const (
	RangeWeek  TimeRange = "1week"
	RangeMonth TimeRange = "1month"
	RangeYear  TimeRange = "1year"
)

// ViewMode はチャート表示かテーブル表示かを表します。
type ViewMode string

const (
	ViewChart ViewMode = "chart"
	ViewTable ViewMode = "table"
)

const (
	// AnonymousQuota は未ログインで利用できる訪問回数です。超えるとサインインを求めます。
	AnonymousQuota = 5
	// EmptyMessage は表示する行がないときのメッセージです。
	EmptyMessage = "데이터가 없습니다."
)

var (
	ErrUnknownTimeRange = errors.New("unknown time range")
	ErrUnknownViewMode  = errors.New("unknown view mode")
)

// ParseTimeRange は文字列をTimeRangeに変換します。
func ParseTimeRange(s string) (TimeRange, error) {
	switch r := TimeRange(strings.ToLower(strings.TrimSpace(s))); r {
	case RangeWeek, RangeMonth, RangeYear:
		return r, nil
	}
	return "", ErrUnknownTimeRange
}

// Days は期間を日数に変換します。不明な値は1年扱いです。
func (r TimeRange) Days() int {
	switch r {
	case RangeWeek:
		return 7
	case RangeMonth:
		return 30
	default:
		return 365
	}
}

// ParseViewMode は文字列をViewModeに変換します。
func ParseViewMode(s string) (ViewMode, error) {
	switch v := ViewMode(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewChart, ViewTable:
		return v, nil
	}
	return "", ErrUnknownViewMode
}
