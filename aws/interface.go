/*
 *  MIT License
 *
 *  Copyright (c) 2020 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

// Package aws declares the Config contract signing and client consume to
// reach an S3-compatible endpoint's region/credentials/retryer. A larger
// Bucket/Group/Object/Policy/Role/User IAM+S3 admin surface used to live
// here too; see DESIGN.md for why it was dropped rather than adapted.
package aws

import (
	"context"
	"net/http"
	"net/url"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	liberr "github.com/nabbar/s3transfer/errors"
)

// Config is the region/credentials/retryer surface signing.New needs,
// implemented by aws/configAws's awsModel.
type Config interface {
	Check(ctx context.Context) liberr.Error
	Validate() liberr.Error

	ResetRegionEndpoint()
	RegisterRegionEndpoint(region string, endpoint *url.URL) liberr.Error
	RegisterRegionAws(endpoint *url.URL) liberr.Error
	SetRegion(region string)
	GetRegion() string
	SetEndpoint(endpoint *url.URL)
	GetEndpoint() *url.URL

	IsHTTPs() bool
	ResolveEndpoint(service, region string) (sdkaws.Endpoint, error)
	SetRetryer(retryer func() sdkaws.Retryer)

	GetConfig(ctx context.Context, cli *http.Client) (*sdkaws.Config, liberr.Error)
	JSON() ([]byte, error)
	Clone() Config

	GetBucketName() string
	SetBucketName(bucket string)
}
