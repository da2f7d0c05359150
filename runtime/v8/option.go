package v8

import (
	"time"

	"github.com/yaoapp/kun/log"
)

// Validate the option
func (option *Option) Validate() {
	if option.Timeout < 0 {
		log.Warn("[V8] the timeout should not be negative, the execution will never be terminated")
		option.Timeout = 0
	}

	if option.Timeout > 0 && option.Timeout < time.Millisecond {
		log.Warn("[V8] the minimum value of timeout is 1ms")
		option.Timeout = time.Millisecond
	}
}
