package emailsvc

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	testutil "github.com/Sathishnaik786/Employee-Management-System-sub000/tests"
)

func testConf() *core.Config {
	conf := core.NewTestConfig()
	conf.AppName = "EMS"
	conf.Email.FromName = "EMS"
	conf.Email.FromAddress = "noreply@ems.test"
	return conf
}

func testMessage() *core.EmailMessage {
	return &core.EmailMessage{
		To:      []mail.Address{{Name: "Registrar", Address: "registrar@uni.edu"}},
		Cc:      []mail.Address{{Address: "dean@uni.edu"}},
		Subject: "Hello",
		BodyStr: "plain body",
	}
}

func TestNew(t *testing.T) {
	logger := testutil.NewLogger()

	conf := testConf()
	svc, err := New(conf, logger, nil)
	require.NoError(t, err)
	assert.IsType(t, &ConsoleService{}, svc)

	conf.Email.Service = core.EmailSendgrid
	_, err = New(conf, logger, nil)
	assert.EqualError(t, err, "sendgrid api key is not set")

	conf.Email.SendgridApiKey = "SG.key"
	svc, err = New(conf, logger, nil)
	require.NoError(t, err)
	assert.IsType(t, &sendgridService{}, svc)

	conf.Email.Service = "carrier-pigeon"
	_, err = New(conf, logger, nil)
	assert.EqualError(t, err, `unknown email service "carrier-pigeon"`)
}

func TestConsoleService_SendMessages(t *testing.T) {
	out := new(bytes.Buffer)
	svc := NewConsoleService(testConf(), out)

	noRecipient := &core.EmailMessage{Subject: "lost", BodyStr: "nobody reads this"}
	require.NoError(t, svc.SendMessages(testMessage(), noRecipient))

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "plain body", sent[0].TextContent)

	text := out.String()
	assert.Contains(t, text, `From: "EMS" <noreply@ems.test>`)
	assert.Contains(t, text, "Subject: [EMS] Hello")
	assert.Contains(t, text, `To: "Registrar" <registrar@uni.edu>`)
	assert.Contains(t, text, "CC: <dean@uni.edu>")
	assert.NotContains(t, text, "BCC:")
	assert.Contains(t, text, "plain body")
	assert.NotContains(t, text, "text/html")
}

func TestConsoleService_unknownTemplate(t *testing.T) {
	svc := NewConsoleService(testConf(), nil)
	err := svc.SendMessages(&core.EmailMessage{To: testMessage().To, TemplateName: "nope"})
	assert.EqualError(t, err, `rendering email: unknown text template "nope"`)
	assert.Empty(t, svc.SentMessages())
}

func TestSendgridService_SendMessages(t *testing.T) {
	var (
		gotAuth string
		gotPath string
		gotBody map[string]interface{}
		status  = http.StatusAccepted
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"errors":[]}`))
	}))
	defer srv.Close()

	defer func(h string) { host = h }(host)
	host = srv.URL

	conf := testConf()
	conf.Email.SendgridApiKey = "SG.key"
	logger := testutil.NewLogger()
	svc := NewSendgridService(conf, logger)

	require.NoError(t, svc.SendMessages(testMessage()))
	assert.Equal(t, "Bearer SG.key", gotAuth)
	assert.Equal(t, endpoint, gotPath)
	assert.Equal(t, map[string]interface{}{"name": "EMS", "email": "noreply@ems.test"}, gotBody["from"])
	require.Len(t, gotBody["personalizations"], 1)
	p := gotBody["personalizations"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "[EMS] Hello", p["subject"])
	assert.Len(t, gotBody["content"], 1)

	status = http.StatusBadRequest
	err := svc.SendMessages(testMessage())
	assert.EqualError(t, err, `sendgrid responded 400: {"errors":[]}`)
	assert.NotEmpty(t, logger.Logged("error"))
}
