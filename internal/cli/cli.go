package cli

import (
	"github.com/google/subcommands"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "reports")

	c.Register(&importCmd{}, "storage")
}
