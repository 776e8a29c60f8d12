package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spool-tracker/pkg/response"
)

// DeviceKeyHeader carries the shared secret of a scale or reader.
const DeviceKeyHeader = "X-Device-Key"

// DeviceKeyVerifier checks reader credentials.
type DeviceKeyVerifier interface {
	VerifyDeviceKey(key string) error
}

// DeviceKey rejects scan requests whose device key does not verify. When no
// key is configured every request passes.
func DeviceKey(verifier DeviceKeyVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := verifier.VerifyDeviceKey(c.GetHeader(DeviceKeyHeader)); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
