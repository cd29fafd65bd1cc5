// Package catalog provides search clients for the public dataset catalogs
// (Kaggle, Hugging Face and GitHub) and the registry that holds them.
//
// Every client satisfies the same contract: Search never returns an error.
// Network failures, authentication problems, rate limiting and malformed
// responses are logged with the backend name and degrade to an empty result
// list, so one broken backend never hides the results of the others.
//
// The clients share one HTTP client construction (timeout, user agent and an
// optional SOCKS5 proxy) and each owns a RateLimiter that combines a local
// token bucket with the backend's X-RateLimit-* headers.
package catalog
