package buyer

import (
	"net/http"

	"github.com/selesy/l402-buyer/pkg/api"
)

// ClientForPayer returns an http.Client whose requests pay for L402
// challenges using payer.
//
// The client provided with WithClient, or a copy of http.DefaultClient, is
// copied and its transport wrapped.  The original client is left alone.
func ClientForPayer(payer api.Payer, opts ...Option) (*http.Client, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	trans, err := NewTransport(cfg.client.Transport, payer, opts...)
	if err != nil {
		return nil, err
	}

	client := *cfg.client
	client.Transport = trans

	return &client, nil
}
