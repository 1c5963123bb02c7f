package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"feedbackpulse/internal/config"
	apperrors "feedbackpulse/internal/errors"
	"feedbackpulse/internal/shared/testutil"
	"feedbackpulse/pkg/contracts/domain"
)

func TestDecodeCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    [][]string
		wantErr bool
	}{
		{
			name:  "strips byte order mark",
			input: "\ufeffEtapa,Especialista\nRespondida,Ana\n",
			want:  [][]string{{"Etapa", "Especialista"}, {"Respondida", "Ana"}},
		},
		{
			name:  "ragged rows",
			input: "a,b,c\n1\n1,2,3,4\n",
			want:  [][]string{{"a", "b", "c"}, {"1"}, {"1", "2", "3", "4"}},
		},
		{
			name:  "quoted newline in comment",
			input: "Comentario\n\"linha 1\nlinha 2\"\n",
			want:  [][]string{{"Comentario"}, {"linha 1\nlinha 2"}},
		},
		{
			name:    "empty document",
			input:   "",
			wantErr: true,
		},
		{
			name:    "only a byte order mark",
			input:   "\ufeff",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCSV(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrNoHeader)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	survey := testutil.NewSurvey().
		Row("Ana", "15/01/2024", "Respondida", "5", "5", "4", "4", "5", "10", "Excelente")

	var userAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write(survey.CSV(t))
	}))
	defer srv.Close()

	logger, _ := testutil.NewTestLogger(t)
	fetcher := NewHTTPFetcher(srv.URL, srv.Client(), logger)

	records, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)

	assert.Len(t, records, 2)
	assert.Equal(t, testutil.SurveyHeaders, records[0])
	assert.Equal(t, "Ana", records[1][1])
	assert.Contains(t, userAgent, "FeedbackPulse/")
	assert.Equal(t, srv.URL, fetcher.Location())
}

func TestHTTPFetcher_Failures(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantType apperrors.ErrorType
	}{
		{
			name: "non 2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "gone", http.StatusNotFound)
			},
			wantType: apperrors.ErrTypeNetwork,
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			wantType: apperrors.ErrTypeParsing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewHTTPFetcher(srv.URL, srv.Client(), nil).Fetch(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFetchFailed))

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantType, appErr.Type)
			assert.Equal(t, srv.URL, appErr.Context["location"])
		})
	}
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewHTTPFetcher(srv.URL, srv.Client(), nil).Fetch(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestFileFetcher(t *testing.T) {
	path := testutil.NewSurvey().
		Row("Bruno", "01/02/2024", "Agendada", "", "", "", "", "", "", "").
		WriteFile(t)

	records, err := NewFileFetcher(path, nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = NewFileFetcher(filepath.Join(t.TempDir(), "missing.csv"), nil).Fetch(context.Background())
	assert.True(t, errors.Is(err, ErrFetchFailed))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFetchers_RejectOversizedSource(t *testing.T) {
	survey := testutil.NewSurvey()
	for i := 0; i < 20; i++ {
		survey.Row("Ana", "15/01/2024", "Respondida", "5", "5", "4", "4", "5", "10", strings.Repeat("longo ", 20))
	}
	body := survey.CSV(t)
	limit := int64(len(body) - 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "big.csv")
	require.NoError(t, os.WriteFile(path, body, 0o644))

	httpFetcher := NewHTTPFetcher(srv.URL, srv.Client(), nil)
	httpFetcher.maxBytes = limit
	fileFetcher := NewFileFetcher(path, nil)
	fileFetcher.maxBytes = limit

	for name, fetcher := range map[string]Fetcher{"http": httpFetcher, "file": fileFetcher} {
		t.Run(name, func(t *testing.T) {
			records, err := fetcher.Fetch(context.Background())
			require.Error(t, err)
			assert.Nil(t, records, "no partial table")
			assert.True(t, errors.Is(err, ErrFetchFailed))
			assert.True(t, errors.Is(err, ErrSourceTooLarge))

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
		})
	}

	t.Run("exactly at the limit", func(t *testing.T) {
		fetcher := NewFileFetcher(path, nil)
		fetcher.maxBytes = int64(len(body))

		records, err := fetcher.Fetch(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 21)
	})
}

func TestReadLimited(t *testing.T) {
	data, err := readLimited(strings.NewReader("abc"), 3)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	_, err = readLimited(strings.NewReader("abcd"), 3)
	assert.ErrorIs(t, err, ErrSourceTooLarge)
}

func TestSheetsFetcher(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"range":          "Respostas!A1:Z3",
			"majorDimension": "ROWS",
			"values": [][]interface{}{
				{"Especialista Responsável", "Etapa", "4. Qual a probabilidade de recomendar o advisor da BeSmart para um colega?"},
				{"Ana", "Respondida", 9},
				{"Bruno"},
			},
		})
	}))
	defer srv.Close()

	fetcher := NewSheetsFetcher("sheet123", "Respostas!A1:Z", nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)

	records, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)

	assert.Contains(t, gotPath, "/v4/spreadsheets/sheet123/values/")
	assert.Equal(t, []string{"Ana", "Respondida", "9"}, records[1])
	assert.Equal(t, []string{"Bruno"}, records[2])
	assert.Equal(t, "sheets:sheet123!Respostas!A1:Z", fetcher.Location())
}

func TestSheetsFetcher_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewSheetsFetcher("sheet123", "A1:Z", nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	).Fetch(context.Background())

	assert.True(t, errors.Is(err, ErrFetchFailed))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SourceConfig
		want    interface{}
		wantErr bool
	}{
		{"csv", config.SourceConfig{Kind: config.SourceKindCSV, URL: "https://example.com/x.csv", FetchTimeout: time.Second}, &HTTPFetcher{}, false},
		{"file", config.SourceConfig{Kind: config.SourceKindFile, Path: "x.csv"}, &FileFetcher{}, false},
		{"sheets", config.SourceConfig{Kind: config.SourceKindSheets, SheetID: "id", SheetRange: "A1:Z", APIKey: "k"}, &SheetsFetcher{}, false},
		{"unknown", config.SourceConfig{Kind: "ftp"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.cfg, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
			assert.Equal(t, tt.cfg.Location(), got.Location())
		})
	}
}
