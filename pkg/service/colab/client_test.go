package colab_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/gea-gov/gea/pkg/service/colab"
	"github.com/m-mizutani/gt"
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "gea" || pass != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchCases(t *testing.T) {
	body := `[
		{"id": 1201, "protocolo": "2024/0001", "secretaria_responsavel": "Secretaria de Obras",
		 "servico": "Tapa-buraco", "solicitante": "Ana", "status": "Em análise", "descricao": "Rua A"},
		{"id": "abc-9", "protocolo": null, "secretaria_responsavel": "Saude",
		 "servico": "Consulta", "solicitante": "Rui", "status": ""}
	]`
	srv := newServer(t, http.StatusOK, body)

	client, err := colab.New(srv.URL+"/api/cases", "gea", "s3cret")
	gt.NoError(t, err).Required()

	cases, err := client.FetchCases(context.Background())
	gt.NoError(t, err).Required()
	gt.Array(t, cases).Length(2)

	gt.Value(t, cases[0].ExternalID).Equal("1201")
	gt.Value(t, cases[0].ProtocolNumber).Equal("2024/0001")
	gt.Value(t, cases[0].Secretariat).Equal("Secretaria de Obras")
	gt.Value(t, cases[0].ServiceName).Equal("Tapa-buraco")
	gt.Value(t, cases[0].Status).Equal(types.CaseStatusInReview)
	gt.Value(t, cases[0].RequestDetails).Equal("Rua A")

	gt.Value(t, cases[1].ExternalID).Equal("abc-9")
	gt.Value(t, cases[1].ProtocolNumber).Equal("")
	gt.Value(t, cases[1].Status).Equal(types.CaseStatus(""))
}

func TestClient_FetchCasesEnvelope(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"data": [{"id": 7, "servico": "Poda", "secretaria_responsavel": "Meio Ambiente", "solicitante": "Lia"}]}`)

	client, err := colab.New(srv.URL, "gea", "s3cret")
	gt.NoError(t, err).Required()

	cases, err := client.FetchCases(context.Background())
	gt.NoError(t, err).Required()
	gt.Array(t, cases).Length(1)
	gt.Value(t, cases[0].ExternalID).Equal("7")
}

func TestClient_FetchCasesErrors(t *testing.T) {
	t.Run("wrong credentials", func(t *testing.T) {
		srv := newServer(t, http.StatusOK, `[]`)
		client, err := colab.New(srv.URL, "gea", "wrong")
		gt.NoError(t, err).Required()

		_, err = client.FetchCases(context.Background())
		gt.Error(t, err).Is(colab.ErrUnauthorized)
	})

	t.Run("server error", func(t *testing.T) {
		srv := newServer(t, http.StatusBadGateway, `upstream down`)
		client, err := colab.New(srv.URL, "gea", "s3cret")
		gt.NoError(t, err).Required()

		_, err = client.FetchCases(context.Background())
		gt.Error(t, err).Is(colab.ErrBadStatus)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := newServer(t, http.StatusOK, `[{"id": `)
		client, err := colab.New(srv.URL, "gea", "s3cret")
		gt.NoError(t, err).Required()

		_, err = client.FetchCases(context.Background())
		gt.Value(t, err).NotNil()
	})

	t.Run("unreachable host", func(t *testing.T) {
		srv := newServer(t, http.StatusOK, `[]`)
		url := srv.URL
		srv.Close()

		client, err := colab.New(url, "gea", "s3cret")
		gt.NoError(t, err).Required()
		_, err = client.FetchCases(context.Background())
		gt.Value(t, err).NotNil()
	})
}

func TestNew_InvalidEndpoint(t *testing.T) {
	_, err := colab.New("not a url", "", "")
	gt.Value(t, err).NotNil()
}

func TestMapStatus(t *testing.T) {
	gt.Value(t, colab.MapStatus("concluído")).Equal(types.CaseStatusCompleted)
	gt.Value(t, colab.MapStatus("IN_REVIEW")).Equal(types.CaseStatusInReview)
	gt.Value(t, colab.MapStatus(" aberto ")).Equal(types.CaseStatusOpen)
	gt.Value(t, colab.MapStatus("weird")).Equal(types.CaseStatus("WEIRD"))
}
