/*
Package types defines the data structures shared across qrforge.

# Overview

The types package provides shared type definitions for:
  - Input modes and their raw field values
  - Rendering options shared by every mode
  - The request/response protocol with the rendering service
  - Backend profiles and session state

# Request Types

GenerationRequest:
  - Built by the form package from the active mode only
  - Sent verbatim to /api/generate and /api/download
  - Kept by the coordinator as the last payload for downloads

# Response Types

GenerationResult:
  - success/image/dataString/charCount/errorCorrection on success
  - success=false and error on failure

# Display Helpers

Preview truncates an encoded data string for display: at most 48
characters are shown as-is, longer strings keep 45 characters plus an
ellipsis.

# Example Structures

Generation request:

	{
	  "mode": "url",
	  "data": {"url": "https://example.com"},
	  "errorCorrection": "M",
	  "size": 10,
	  "margin": 4,
	  "fgColor": "#000000",
	  "bgColor": "#ffffff"
	}

Profile:

	{
	  "name": "local",
	  "baseUrl": "http://localhost:5000",
	  "headers": {"X-Client": "qrforge"}
	}
*/
package types
