package httpapi

import "github.com/gin-gonic/gin"

// respondError aborts the request with a JSON message body. The message is
// the externally visible explanation; err adds detail for clients that want
// it. Only token and validation failures pass err; store errors never reach
// this function with err set.
func respondError(c *gin.Context, status int, message string, err error) {
	c.Abort()
	body := gin.H{"message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	c.JSON(status, body)
}
