package confirm_exit

import (
	"context"

	confirmExit "github.com/m04kA/SMC-ParkingService/internal/usecase/confirm_exit"
)

type ConfirmExitUseCase interface {
	Execute(ctx context.Context, req *confirmExit.Request) (*confirmExit.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
