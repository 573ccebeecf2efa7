package service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// UpdateInfo describes the latest published release.
type UpdateInfo struct {
	Version      string
	DownloadURL  string
	ReleaseNotes string
	Newer        bool
}

type releaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

type releasePayload struct {
	TagName string         `json:"tag_name"`
	Body    string         `json:"body"`
	Assets  []releaseAsset `json:"assets"`
}

// UpdateService checks a GitHub releases endpoint for a newer build and can
// download it to a temp file. All network work runs on the worker pool; a dead
// network degrades to an error result, never a crash, and nothing here touches
// the schedule document.
type UpdateService struct {
	Repo    string // "owner/name"
	Version string // current dotted version
	Async   *AsyncService
	Client  *http.Client
	Log     *zap.Logger
}

func NewUpdateService(repo, version string, async *AsyncService, log *zap.Logger) *UpdateService {
	return &UpdateService{
		Repo:    repo,
		Version: version,
		Async:   async,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Log:     log,
	}
}

// CompareVersions compares dotted version strings numerically. Returns 1 when
// a is newer, -1 when older, 0 when equal. Missing segments count as zero.
func CompareVersions(a, b string) int {
	as := strings.Split(strings.TrimPrefix(a, "v"), ".")
	bs := strings.Split(strings.TrimPrefix(b, "v"), ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av != bv {
			if av > bv {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Check queries the releases endpoint synchronously.
func (s *UpdateService) Check() (*UpdateInfo, error) {
	url := fmt.Sprintf("https://api.github.com/repos/%s/releases/latest", s.Repo)
	resp, err := s.Client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("couldn't check for updates: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("couldn't check for updates: HTTP %d", resp.StatusCode)
	}

	var release releasePayload
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("couldn't parse release metadata: %w", err)
	}
	info := &UpdateInfo{
		Version:      strings.TrimPrefix(release.TagName, "v"),
		ReleaseNotes: release.Body,
	}
	info.Newer = CompareVersions(info.Version, s.Version) > 0
	for _, asset := range release.Assets {
		if strings.Contains(strings.ToLower(asset.Name), runtime.GOOS) {
			info.DownloadURL = asset.BrowserDownloadURL
			break
		}
	}
	if info.DownloadURL == "" && len(release.Assets) > 0 {
		info.DownloadURL = release.Assets[0].BrowserDownloadURL
	}
	return info, nil
}

// CheckAsync runs Check on the worker pool and hands the result to cb on a
// worker goroutine.
func (s *UpdateService) CheckAsync(cb func(*UpdateInfo, error)) {
	s.Async.Fire(func() (any, error) {
		return s.Check()
	}, func(v any, err error) {
		if err != nil {
			s.Log.Warn("update check failed", zap.Error(err))
			cb(nil, err)
			return
		}
		cb(v.(*UpdateInfo), nil)
	})
}

// Download fetches the release asset to a temp file, reporting percentage
// progress when the size is known. Returns the downloaded file's path.
func (s *UpdateService) Download(url string, progress func(float64)) (string, error) {
	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: HTTP %d", resp.StatusCode)
	}

	dir, err := os.MkdirTemp("", "schedule-bot-update-")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(url))
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	total := resp.ContentLength
	var done int64
	buf := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := out.Write(buf[:n]); err != nil {
				return "", err
			}
			done += int64(n)
			if progress != nil && total > 0 {
				progress(float64(done) / float64(total) * 100)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", fmt.Errorf("download interrupted: %w", readErr)
		}
	}
	s.Log.Info("update downloaded", zap.String("path", path), zap.Int64("bytes", done))
	return path, nil
}
