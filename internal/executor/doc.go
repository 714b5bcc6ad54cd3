/*
Package executor is the HTTP client for the QR rendering service.

# Endpoints

Two endpoints are used, both taking the same JSON GenerationRequest:

  - POST /api/generate answers with a JSON GenerationResult whose image
    is a data: URI
  - POST /api/download answers with the raw PNG bytes

# Errors

Errors come in three shapes so callers can pick the right notice:

  - ErrServiceUnreachable wraps transport failures (dial, TLS, reset)
  - *ServiceError carries a failure message reported by the service, or an
    "unexpected response" message when the body could not be decoded
  - *DownloadError is a non-2xx download answer

FetchImage wraps its failures with ErrImageFetch.

CategorizeError maps transport errors to a human readable cause for logs
and status lines.

# Profiles

NewClientFromProfile applies a profile's headers, TLS/mTLS files and
timeout. Without a timeout requests are bounded only by their context.

# Example Usage

	client, err := executor.NewClient("http://localhost:5000")
	if err != nil {
		return err
	}

	result, err := client.Generate(ctx, req)
	var svcErr *executor.ServiceError
	switch {
	case errors.As(err, &svcErr):
		fmt.Println("service said:", svcErr.Message)
	case errors.Is(err, executor.ErrServiceUnreachable):
		fmt.Println(executor.CategorizeError(err))
	case err == nil:
		fmt.Println(types.Preview(result.DataString))
	}

# Thread Safety

A Client is safe for concurrent use.
*/
package executor
