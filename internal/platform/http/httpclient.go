package http

import (
	"net"
	"net/http"
	"time"
)

// DefaultTimeout はプロバイダー設定でタイムアウトが省略された場合に使う値です。
const DefaultTimeout = 10 * time.Second

// NewHTTPClient は株価プロバイダー呼び出し用のHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト
//   - MaxIdleConnsPerHost: 銘柄ごとの並行取得で同一ホストへの接続を使い回す
//   - Client.Timeout: リクエスト全体のタイムアウト（0以下ならDefaultTimeout）
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にこのクライアントを使用すること
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
