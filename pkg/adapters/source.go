// Package adapters は融合エンジンの外側にある画像ソースと命名サービスへの接続を提供します。
package adapters

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/poke-fusion-kit/pkg/imgutil"
	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

const cacheKeySourceBytes = "source_bytes:"

// HTTPClient は、URLからデータを取得するためのインターフェースです。
// httpkit.ClientInterface はこれを満たします。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// ImageCacher は画像データのキャッシュ操作を抽象化するインターフェースです。
type ImageCacher interface {
	Get(key string) (any, bool)
	Set(key string, value any, d time.Duration)
}

// ImageSource は URI の種類に応じて画像を取得し、RasterImage にデコードします。
//
//	http(s)://  SSRF チェックの後 HTTPClient で取得
//	gs://       remoteio.InputReader で取得 (reader が設定されている場合のみ)
//	data:       埋め込まれたバイト列をそのまま使用
//	file:// またはパス  ローカルファイル
type ImageSource struct {
	httpClient HTTPClient
	reader     remoteio.InputReader
	cache      ImageCacher
	cacheTTL   time.Duration
	validate   func(string) (bool, error)
}

// NewImageSource は依存関係を注入して ImageSource を生成します。
// reader と cache は nil を許容します。
func NewImageSource(httpClient HTTPClient, reader remoteio.InputReader, cache ImageCacher, cacheTTL time.Duration) (*ImageSource, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	return &ImageSource{
		httpClient: httpClient,
		reader:     reader,
		cache:      cache,
		cacheTTL:   cacheTTL,
		validate:   IsSafeURL,
	}, nil
}

// Load は uri の画像を取得してデコードします。
func (s *ImageSource) Load(ctx context.Context, uri string) (*raster.RasterImage, error) {
	data, err := s.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	return imgutil.Decode(data)
}

// Fetch は uri の生のバイト列を返します。リモートから取得したものはキャッシュします。
func (s *ImageSource) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "data:") {
		_, data, err := imgutil.ParseDataURL(uri)
		return data, err
	}

	key := cacheKeySourceBytes + uri
	if s.cache != nil {
		if cached, found := s.cache.Get(key); found {
			if data, ok := cached.([]byte); ok {
				return data, nil
			}
			slog.WarnContext(ctx, "キャッシュデータが不正な型です", "uri", uri, "type", fmt.Sprintf("%T", cached))
		}
	}

	var (
		data []byte
		err  error
	)
	switch {
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		data, err = s.fetchHTTP(ctx, uri)
	case strings.HasPrefix(uri, "gs://"):
		data, err = s.fetchGCS(ctx, uri)
	default:
		// ローカルファイルはキャッシュしない
		return os.ReadFile(strings.TrimPrefix(uri, "file://"))
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, data, s.cacheTTL)
	}
	return data, nil
}

func (s *ImageSource) fetchHTTP(ctx context.Context, uri string) ([]byte, error) {
	if safe, err := s.validate(uri); err != nil || !safe {
		slog.WarnContext(ctx, "SSRFの可能性がある、または不正なURLをブロックしました", "url", uri, "error", err)
		return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
	}
	return s.httpClient.FetchBytes(ctx, uri)
}

func (s *ImageSource) fetchGCS(ctx context.Context, uri string) ([]byte, error) {
	if s.reader == nil {
		return nil, fmt.Errorf("gs:// を読むための reader が設定されていません: %s", uri)
	}
	rc, err := s.reader.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// IsSafeURL は SSRF 対策として URL を検証します。
// 名前解決されたすべての IP アドレスに対してプライベート IP チェックを行います。
func IsSafeURL(rawURL string) (bool, error) {
	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false, fmt.Errorf("URLパース失敗: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return false, fmt.Errorf("不許可スキーム: %s", parsedURL.Scheme)
	}

	host := parsedURL.Hostname()
	var ips []net.IP

	// IPアドレスが直接指定されていれば名前解決しない
	if ip := net.ParseIP(host); ip != nil {
		ips = []net.IP{ip}
	} else {
		resolvedIPs, err := net.LookupIP(host)
		if err != nil {
			return false, fmt.Errorf("名前解決失敗: %w", err)
		}
		ips = resolvedIPs
	}

	if len(ips) == 0 {
		return false, fmt.Errorf("IPが見つかりません")
	}

	for _, ip := range ips {
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
			return false, fmt.Errorf("制限されたネットワークへのアクセスを検知: %s", ip.String())
		}
	}

	return true, nil
}
