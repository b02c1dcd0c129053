/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package signing applies SigV4 request signing asynchronously on behalf of
// the request issuer, caching the resolved region and credentials provider
// from the shared aws.Config the same way aws/configAws wires a
// *sdkaws.Config into its own S3 client.
package signing

import (
	"context"
	"net/http"
	"sync"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	sdksv4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"

	libaws "github.com/nabbar/s3transfer/aws"
)

// Config configures a Signer. AWS supplies the region and credentials
// provider (via its GetConfig, exactly as aws/configAws's model feeds a
// *sdkaws.Config to its own S3 client); Service is the SigV4 service name
// ("s3").
type Config struct {
	AWS     libaws.Config
	Service string
}

// Signer signs an HTTP request in place with SigV4, using the payload hash
// supplied by the caller (the request issuer already has the body in hand
// to compute it as part of its own cached signing config).
type Signer interface {
	// Sign signs req in place. payloadHash is the lowercase hex SHA-256 of
	// the request body, or sdksv4.UnsignedPayload when not available ahead
	// of time (e.g. streamed PUT bodies).
	Sign(ctx context.Context, req *http.Request, payloadHash string) error

	// Region returns the signing region currently in effect.
	Region() string
}

// New builds a Signer from cfg. cfg.AWS must be non-nil.
func New(cfg Config) (Signer, error) {
	if cfg.AWS == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}
	if cfg.Service == "" {
		cfg.Service = "s3"
	}

	return &signer{
		cfg: cfg,
		sig: sdksv4.NewSigner(),
	}, nil
}

type signer struct {
	mu  sync.Mutex
	cfg Config
	sig *sdksv4.Signer

	cachedCreds  sdkaws.Credentials
	cachedRegion string
}

func (s *signer) Region() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cachedRegion
}

func (s *signer) resolve(ctx context.Context) (sdkaws.Credentials, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ac, err := s.cfg.AWS.GetConfig(ctx, nil)
	if err != nil || ac == nil {
		return sdkaws.Credentials{}, "", ErrorCredentials.Error(err)
	}
	if ac.Credentials == nil {
		return sdkaws.Credentials{}, "", ErrorCredentials.Error(nil)
	}

	creds, e := ac.Credentials.Retrieve(ctx)
	if e != nil {
		return sdkaws.Credentials{}, "", ErrorCredentials.Error(e)
	}

	s.cachedCreds = creds
	s.cachedRegion = ac.Region
	return creds, ac.Region, nil
}

func (s *signer) Sign(ctx context.Context, req *http.Request, payloadHash string) error {
	if req == nil {
		return ErrorParamEmpty.Error(nil)
	}
	if payloadHash == "" {
		payloadHash = sdksv4.UnsignedPayload
	}

	creds, region, err := s.resolve(ctx)
	if err != nil {
		return err
	}

	if e := s.sig.SignHTTP(ctx, creds, req, payloadHash, s.cfg.Service, region, time.Now()); e != nil {
		return ErrorSignFailed.Error(e)
	}

	return nil
}
