package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

// BackendPreset 托管图床（unsigned upload preset）
const BackendPreset = "preset"

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// PresetUploader 以 multipart 表单（file + upload_preset）调用托管图床接口。
// 类型与大小由远端校验。
type PresetUploader struct {
	endpoint   string
	preset     string
	httpClient httpDoer
}

type presetResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	PublicID  string `json:"public_id"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewPresetUploader 构造 PresetUploader。
func NewPresetUploader(endpoint, preset string) *PresetUploader {
	return &PresetUploader{
		endpoint:   strings.TrimSpace(endpoint),
		preset:     strings.TrimSpace(preset),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// SetHTTPClient 替换 HTTP 客户端，主要面向测试场景。
func (u *PresetUploader) SetHTTPClient(client httpDoer) {
	if client == nil {
		u.httpClient = &http.Client{Timeout: 60 * time.Second}
		return
	}
	u.httpClient = client
}

// Upload 发送单次 POST 请求并解析返回的公开地址与资源 ID。
func (u *PresetUploader) Upload(ctx context.Context, file File) (Asset, error) {
	if file.Reader == nil {
		return Asset{}, &Error{Backend: BackendPreset, Message: "file content is empty"}
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	name := file.Name
	if strings.TrimSpace(name) == "" {
		name = "upload"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(name)))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return Asset{}, &Error{Backend: BackendPreset, Err: err}
	}
	if _, err := io.Copy(part, file.Reader); err != nil {
		return Asset{}, &Error{Backend: BackendPreset, Err: fmt.Errorf("read upload: %w", err)}
	}
	if err := writer.WriteField("upload_preset", u.preset); err != nil {
		return Asset{}, &Error{Backend: BackendPreset, Err: err}
	}
	if err := writer.Close(); err != nil {
		return Asset{}, &Error{Backend: BackendPreset, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, body)
	if err != nil {
		return Asset{}, &Error{Backend: BackendPreset, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("User-Agent", "artfolio/1.0")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return Asset{}, &Error{Backend: BackendPreset, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Asset{}, &Error{Backend: BackendPreset, StatusCode: resp.StatusCode, Err: err}
	}

	var payload presetResponse
	decodeErr := json.Unmarshal(raw, &payload)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(raw))
		if decodeErr == nil && payload.Error != nil && payload.Error.Message != "" {
			msg = payload.Error.Message
		}
		if len(msg) > 512 {
			msg = msg[:512]
		}
		return Asset{}, &Error{Backend: BackendPreset, StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return Asset{}, &Error{Backend: BackendPreset, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", decodeErr)}
	}

	url := payload.SecureURL
	if url == "" {
		url = payload.URL
	}
	if url == "" {
		return Asset{}, &Error{Backend: BackendPreset, StatusCode: resp.StatusCode, Message: "response did not include a url"}
	}

	return Asset{URL: url, AssetID: payload.PublicID, Width: payload.Width, Height: payload.Height}, nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}
