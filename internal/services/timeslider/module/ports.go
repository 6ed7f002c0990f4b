package module

import (
	"timeslider/internal/services/timeslider/service"
)

// Ports holds the ports exposed by the timeslider module
type Ports struct {
	Session *service.Session
}
