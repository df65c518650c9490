package program

import "github.com/Carmen-Shannon/oxy-gl/engine/gpu"

// enablePrimitiveRestart turns on primitive restart unless the context already has it. It is global GPU state,
// so there is no point in repeating it for every program.
func enablePrimitiveRestart(ctx gpu.Context) {
	if ctx.PrimitiveRestartEnabled() {
		return
	}
	ctx.EnablePrimitiveRestart(gpu.RestartIndex)
}
