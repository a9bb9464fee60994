package http

import (
	"net/http"
	"time"

	"github.com/libelulasoft/agil-idp/internal/idp/store"
	"github.com/libelulasoft/agil-idp/pkg/httpx"
	"github.com/libelulasoft/agil-idp/pkg/jwtx"
	"github.com/libelulasoft/agil-idp/pkg/oidcsdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of the signer and in-memory stores
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	oidcsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	oidcsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	codes *store.CodeStore,
	tokens *store.TokenStore,
	keys *jwtx.KeySet,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &oidcsdk.HealthChecks{
			Signer: "ok",
			Stores: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		// Check if the signing key set is loaded
		if !keys.IsReady() {
			checks.Signer = "error: no keys loaded"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// The stores are in-process; not being wired at all is the only
		// failure mode worth reporting.
		if codes == nil || tokens == nil {
			checks.Stores = "error: stores not initialized"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := oidcsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
