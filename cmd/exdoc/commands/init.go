package commands

import (
	"fmt"

	"git.home.luguber.info/inful/exdoc/internal/config"
)

// InitCmd writes a commented starter configuration.
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, c *CLI) error {
	if err := config.Init(c.Config, i.Force); err != nil {
		return err
	}
	fmt.Printf("Wrote starter configuration to %s\n", c.Config)
	return nil
}
