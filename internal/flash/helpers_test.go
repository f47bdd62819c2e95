package flash

import logx "toastd/pkg/logx"

func nopLogger() logx.Logger { return logx.Nop() }
