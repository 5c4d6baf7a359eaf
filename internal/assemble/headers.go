package assemble

// headersFile declares the provider's per-path response headers. The CSP
// allows the tracking origins the head may reference.
const headersFile = `/*
  X-Frame-Options: DENY
  X-Content-Type-Options: nosniff
  Referrer-Policy: strict-origin-when-cross-origin
  Content-Security-Policy: default-src 'self'; script-src 'self' 'unsafe-inline' https://connect.facebook.net https://www.googletagmanager.com https://www.clarity.ms; style-src 'self' 'unsafe-inline'; img-src * data:; connect-src *
`

// redirectsFile routes unmatched paths back to the document (SPA fallback).
const redirectsFile = `/*    /index.html   200
`
