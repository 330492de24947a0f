package restyutil

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// Dump writes every http exchange of a client into a directory, one file per
// response. It is meant for looking at what a site actually served when a
// parser starts failing.
type Dump struct {
	directory string
	idcounter *uint64
}

var dumpFilenameRegex = regexp.MustCompile(`^\d{4,}-[A-Z]+-.*\.txt$`)

// NewDump creates `dir` if needed and removes the dump files of a previous
// run from it. Files not named like a dump file are left alone.
func NewDump(dir string) (Dump, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return Dump{}, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Dump{}, err
	}
	for _, entry := range entries {
		if entry.IsDir() || !dumpFilenameRegex.MatchString(entry.Name()) {
			continue
		}
		err = os.Remove(filepath.Join(dir, entry.Name()))
		if err != nil {
			return Dump{}, err
		}
	}
	var idcounter uint64
	return Dump{directory: dir, idcounter: &idcounter}, nil
}

// Attach makes `client` write each response it receives to the dump.
func (d Dump) Attach(client *resty.Client) {
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := atomic.AddUint64(d.idcounter, 1)
		d.write(DumpFilename(id, res.Request.Method, res.Request.URL), formatHttpMessage(res))
		return nil
	})
}

func (d Dump) write(name, contents string) {
	err := os.WriteFile(filepath.Join(d.directory, name), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write http dump file", "name", name, "err", err)
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// DumpFilename returns the name of the file the `id`th exchange is written
// to, ex. `0003-GET-arena.ai-leaderboard-text-coding.txt`.
func DumpFilename(id uint64, method, url string) string {
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	url = strings.Trim(unsafeFilenameChars.ReplaceAllString(url, "-"), "-")
	if len(url) > 100 {
		url = url[:100]
	}
	return fmt.Sprintf("%04d-%s-%s.txt", id, method, url)
}

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := []string{}
	for _, k := range keys {
		for _, v := range headers[k] {
			lines = append(lines, fmt.Sprintf("%s: %s", k, v))
		}
	}
	return strings.Join(lines, "\n")
}

func formatRequestBody(req *http.Request) string {
	// net/http leaves GetBody unset for requests without a body
	if req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("failed to get request body: %s", err.Error())
	}
	// resty sets a GetBody that returns nil for requests without a payload
	if body == nil {
		return ""
	}
	defer body.Close()
	readBody, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("failed to read request body: %s", err.Error())
	}
	return string(readBody)
}

// 1: request method
// 2: request url
// 3: request headers in ("Key: Value" format)
// 4: request body
// 5: response status
// 6: response headers in ("Key: Value" format)
// 7: response body
const messageInfoTemplate = `---- REQUEST ----

%s %s

%s

%s

---- RESPONSE ----

%s

%s

%s`

func formatHttpMessage(res *resty.Response) string {
	requestHeaders := ""
	requestBody := ""
	if res.Request.RawRequest != nil {
		requestHeaders = formatHeaders(res.Request.RawRequest.Header)
		requestBody = formatRequestBody(res.Request.RawRequest)
	}

	return fmt.Sprintf(
		messageInfoTemplate,

		res.Request.Method, res.Request.URL,
		requestHeaders,
		requestBody,

		res.Status(),
		formatHeaders(res.Header()),
		res.String(),
	)
}
