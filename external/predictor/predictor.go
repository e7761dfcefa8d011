package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bitmark-inc/hormone-health/schema"
)

const (
	defaultURL     = "http://localhost:8000"
	predictPath    = "/predict"
	defaultTimeout = 60 * time.Second
)

var (
	errResponseStatus = fmt.Errorf("response status not ok")
	errEmptyResponse  = fmt.Errorf("empty prediction response")
)

var log = logrus.WithField("prefix", "predictor")

// Predictor sends an intake to the prediction service
type Predictor interface {
	Predict(ctx context.Context, req schema.PredictionRequest) (*schema.PredictionResult, error)
}

//go:generate mockgen -destination=mocks/predictor.go -package=mocks github.com/bitmark-inc/hormone-health/external/predictor Predictor

type predictor struct {
	url        string
	httpClient *http.Client
}

func (p predictor) Predict(ctx context.Context, req schema.PredictionRequest) (*schema.PredictionResult, error) {
	body, err := json.Marshal(req)
	if nil != err {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+predictPath, bytes.NewReader(body))
	if nil != err {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if nil != err {
		return nil, err
	}
	defer resp.Body.Close()

	d, err := ioutil.ReadAll(resp.Body)
	if nil != err {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithField("status", resp.StatusCode).Debugf("prediction rejected: %s", d)
		return nil, fmt.Errorf("%w: %d", errResponseStatus, resp.StatusCode)
	}

	var r *schema.PredictionResult
	if err := json.Unmarshal(d, &r); nil != err {
		return nil, err
	}

	if r == nil {
		return nil, errEmptyResponse
	}

	return r, nil
}

// New returns a client of the prediction service at baseURL. A nil httpClient
// gets a client with a fixed timeout.
func New(baseURL string, httpClient *http.Client) Predictor {
	u := defaultURL
	if baseURL != "" {
		u = strings.TrimRight(baseURL, "/")
	}

	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultTimeout,
		}
	}

	return &predictor{
		url:        u,
		httpClient: httpClient,
	}
}
