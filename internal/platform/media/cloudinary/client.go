package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/giapdoan01/BEArtGallery/internal/feature/gallery/usecase"
)

const (
	// uploadTransformation は保存時の変換指定です（最大2048x2048に制限、品質自動調整）。
	uploadTransformation = "c_limit,h_2048,w_2048/q_auto"
	// thumbnailTransformation はサムネイルの変換指定です（300x300、切り抜いて埋める）。
	thumbnailTransformation = "c_fill,h_300,w_300"
	// assetName はフレームごとの固定ファイル名です。再アップロードは同じパスを上書きします。
	assetName = "image"
)

// Client はCloudinaryのアップロード/管理APIを呼び出すMediaRepository実装です。
type Client struct {
	cfg    Config
	client *http.Client
}

// ClientがMediaRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MediaRepository = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg.withDefaults(), client: client}
}

// uploadResponse はアップロード/削除APIのレスポンスです。
type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Result    string `json:"result"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// folderFor はフレームの保存フォルダを返します。所有者IDとフレーム番号で名前空間を分けます。
func folderFor(ownerID uint, frameNumber int) string {
	return fmt.Sprintf("paintings/%d/%d", ownerID, frameNumber)
}

// sign はCloudinaryの署名規約に従ってパラメータに署名します。
// キーをアルファベット順に並べた k=v&k=v 形式の文字列にシークレットを連結し、
// SHA-1の16進表現を返します。
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	payload := strings.Join(pairs, "&") + c.cfg.APISecret

	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Upload は画像をフレーム専用フォルダにアップロードし、資産への参照を返します。
// 固定のpublic_idと上書き指定により、同じフレームへの再アップロードは同一パスを差し替えます。
func (c *Client) Upload(ctx context.Context, ownerID uint, frameNumber int, data []byte) (*usecase.MediaAsset, error) {
	folder := folderFor(ownerID, frameNumber)
	params := map[string]string{
		"folder":         folder,
		"overwrite":      "true",
		"public_id":      assetName,
		"timestamp":      strconv.FormatInt(time.Now().Unix(), 10),
		"transformation": uploadTransformation,
	}
	signature := c.sign(params)

	// multipart/form-dataボディを組み立てる
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range params {
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := w.WriteField("api_key", c.cfg.APIKey); err != nil {
		return nil, err
	}
	if err := w.WriteField("signature", signature); err != nil {
		return nil, err
	}
	fw, err := w.CreateFormFile("file", assetName)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v1_1/%s/image/upload", c.cfg.APIBaseURL, c.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	res, err := c.doJSON(req)
	if err != nil {
		return nil, err
	}

	return &usecase.MediaAsset{
		AssetID:      res.PublicID,
		URL:          res.SecureURL,
		ThumbnailURL: c.thumbnailURL(res.PublicID),
	}, nil
}

// Destroy は資産ID（public_id）で画像を削除します。
func (c *Client) Destroy(ctx context.Context, assetID string) error {
	params := map[string]string{
		"public_id": assetID,
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}
	signature := c.sign(params)

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_key", c.cfg.APIKey)
	form.Set("signature", signature)

	u := fmt.Sprintf("%s/v1_1/%s/image/destroy", c.cfg.APIBaseURL, c.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.doJSON(req)
	if err != nil {
		return err
	}
	if res.Result != "ok" {
		return fmt.Errorf("cloudinary destroy: %s", res.Result)
	}
	return nil
}

// DeleteFolder はフレームの保存フォルダを削除します（管理API、Basic認証）。
func (c *Client) DeleteFolder(ctx context.Context, ownerID uint, frameNumber int) error {
	folder := folderFor(ownerID, frameNumber)
	u := fmt.Sprintf("%s/v1_1/%s/folders/%s", c.cfg.APIBaseURL, c.cfg.CloudName, folder)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.cfg.APIKey, c.cfg.APISecret)

	_, err = c.doJSON(req)
	return err
}

// thumbnailURL は配信URLにサムネイル変換を挟んだURLを組み立てます。
func (c *Client) thumbnailURL(publicID string) string {
	return fmt.Sprintf("%s/%s/image/upload/%s/%s",
		c.cfg.DeliveryBaseURL, c.cfg.CloudName, thumbnailTransformation, publicID)
}

// doJSON はリクエストを実行し、JSONレスポンスをデコードします。
// HTTPエラーおよびAPIエラーはエラーとして返します。
func (c *Client) doJSON(req *http.Request) (*uploadResponse, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary request failed: %w", err)
	}
	defer resp.Body.Close()

	var body uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("cloudinary: decode response: %w", err)
	}
	if body.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary: %s", body.Error.Message)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("cloudinary http %d", resp.StatusCode)
	}
	return &body, nil
}
