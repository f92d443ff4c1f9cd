//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type cfg struct {
	APIBase     string // http://localhost:8080
	MailhogBase string // http://localhost:8025
	WaitEmail   time.Duration
}

func loadCfg() cfg {
	return cfg{
		APIBase:     getenv("E2E_API_BASE", "http://localhost:8080"),
		MailhogBase: getenv("E2E_MAILHOG_BASE", "http://localhost:8025"),
		WaitEmail:   mustParseDur(getenv("E2E_WAIT_EMAIL", "30s")),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustParseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(err)
	}
	return d
}

type authResp struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type mailhogMessages struct {
	Count    int          `json:"count"`
	Total    int          `json:"total"`
	Messages []mailhogMsg `json:"items"`
}
type mailhogMsg struct {
	To      []mailhogPerson `json:"To"`
	Content struct {
		Headers map[string][]string `json:"Headers"`
		Body    string              `json:"Body"`
	} `json:"Content"`
}
type mailhogPerson struct {
	Mailbox string `json:"Mailbox"`
	Domain  string `json:"Domain"`
}

func (p mailhogPerson) Email() string {
	if p.Domain == "" {
		return p.Mailbox
	}
	return p.Mailbox + "@" + p.Domain
}

func postJSON(t *testing.T, url string, in any, out any, wantCode int) {
	t.Helper()
	b, _ := json.Marshal(in)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != wantCode {
		t.Fatalf("POST %s => %d (want %d): %s", url, resp.StatusCode, wantCode, string(body))
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			t.Fatalf("unmarshal %s: %v; body=%s", url, err, string(body))
		}
	}
}

func getJSON(t *testing.T, url string, into any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)
	all, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(all, into))
}

func Test_PasswordReset_ThroughEmail(t *testing.T) {
	c := loadCfg()

	for {
		resp, err := http.Get(c.APIBase + "/healthz")
		if err == nil && resp.StatusCode == 200 {
			resp.Body.Close()
			break
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(1 * time.Second)
	}

	email := fmt.Sprintf("e2e_%d@flexiride.dev", time.Now().UnixNano())
	oldPass := "P@ssw0rd!old"
	newPass := "P@ssw0rd!new"

	var aresp authResp
	postJSON(t, c.APIBase+"/auth/register", map[string]string{
		"name":     "E2E Reset",
		"email":    email,
		"password": oldPass,
	}, &aresp, 201)
	require.NotEmpty(t, aresp.AccessToken)
	t.Logf("registered %s (id=%d)", aresp.User.Email, aresp.User.ID)

	postJSON(t, c.APIBase+"/auth/password-reset-request", map[string]string{
		"email": email,
	}, nil, 200)

	var token string
	deadline := time.Now().Add(c.WaitEmail)
	for time.Now().Before(deadline) {
		msgs := fetchMailhog(t, c, email)
		for _, m := range msgs {
			if tok := tokenFromBody(m.Content.Body); tok != "" {
				token = tok
				break
			}
		}
		if token != "" {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NotEmpty(t, token, "reset email didn't arrive in time")
	t.Logf("got reset token len=%d", len(token))

	postJSON(t, c.APIBase+"/auth/password-reset", map[string]string{
		"token":       token,
		"newPassword": newPass,
	}, nil, 200)

	postJSON(t, c.APIBase+"/auth/login", map[string]string{
		"email":    email,
		"password": oldPass,
	}, nil, 401)

	var lresp authResp
	postJSON(t, c.APIBase+"/auth/login", map[string]string{
		"email":    email,
		"password": newPass,
	}, &lresp, 200)
	require.Equal(t, aresp.User.ID, lresp.User.ID)
}

func fetchMailhog(t *testing.T, c cfg, toEmail string) []mailhogMsg {
	t.Helper()
	var out mailhogMessages
	getJSON(t, c.MailhogBase+"/api/v2/messages", &out)
	var res []mailhogMsg
	for _, m := range out.Messages {
		for _, rcpt := range m.To {
			if strings.EqualFold(rcpt.Email(), toEmail) {
				res = append(res, m)
				break
			}
		}
	}
	return res
}

func tokenFromBody(body string) string {
	idx := strings.Index(body, "token=")
	if idx == -1 {
		return ""
	}
	rest := body[idx+len("token="):]
	end := strings.IndexAny(rest, `"&<> `)
	if end == -1 {
		end = len(rest)
	}
	return rest[:end]
}
