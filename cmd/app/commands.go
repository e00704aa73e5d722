package main

import (
	"github.com/urfave/cli/v3"
)

func getCommands() []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getStoreCommands()...)
	cmds = append(cmds, getKeyCommands()...)
	cmds = append(cmds, getAccessCommands()...)
	cmds = append(cmds, getSystemCommands()...)
	return cmds
}

// userFlag is the --user flag shared by every command that acts on behalf
// of a user.
func userFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "user",
		Aliases:  []string{"u"},
		Required: true,
		Usage:    "User ID the operation is performed as",
	}
}
