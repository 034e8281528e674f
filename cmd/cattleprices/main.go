package main

import (
	"context"

	"cattleprices/cmd/cattleprices/commands"
	"cattleprices/internal/components/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext(context.Background()))
}
