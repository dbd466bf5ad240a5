package cmd

import (
	_ "bankrec/cmd/root"
	_ "bankrec/cmd/server"
	_ "bankrec/cmd/tracking"
)
