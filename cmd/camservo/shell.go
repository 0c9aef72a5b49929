package main

import (
	"context"
	"strconv"

	"github.com/abiosoft/ishell/v2"
	"github.com/edaniels/golog"

	"github.com/luckyfish-tu/camservo/commands"
	"github.com/luckyfish-tu/camservo/link"
)

func runShell(ctx context.Context, l *link.Link, logger golog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	linkErr := make(chan error, 1)
	go func() {
		linkErr <- l.Run(ctx, func(e link.Event) {
			if e.Kind() == link.EventVersion {
				logger.Infow("firmware connected", "version", e.Value)
			}
		})
	}()

	shell := newShell(l)
	go func() {
		<-ctx.Done()
		shell.Close()
	}()

	shell.Run()
	cancel()
	return <-linkErr
}

func newShell(l *link.Link) *ishell.Shell {
	shell := ishell.New()
	shell.Println("Camera mount shell")

	shell.AddCmd(&ishell.Cmd{
		Name: "target",
		Help: "target <degrees>",
		Func: func(c *ishell.Context) {
			deg, ok := floatArg(c)
			if !ok {
				return
			}
			if err := l.SetTarget(deg); err != nil {
				c.Err(err)
			}
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "speed",
		Help: "speed <degrees per second>",
		Func: func(c *ishell.Context) {
			degPerS, ok := floatArg(c)
			if !ok {
				return
			}
			if err := l.SetSpeed(degPerS); err != nil {
				c.Err(err)
			}
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "invert",
		Help: "invert <on|off>",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Println("usage: invert <on|off>")
				return
			}
			var inverted bool
			switch c.Args[0] {
			case "on", "1", "true":
				inverted = true
			case "off", "0", "false":
			default:
				c.Println("usage: invert <on|off>")
				return
			}
			if err := l.SetInversion(inverted); err != nil {
				c.Err(err)
			}
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "send",
		Help: "send <name:value>, a raw command frame",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Println("usage: send <name:value>")
				return
			}
			if err := l.SendFrame(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "status",
		Help: "show the last known firmware state",
		Func: func(c *ishell.Context) {
			status := l.Status()
			c.Printf("firmware: %s\n", status.FirmwareVersion)
			c.Printf("target:   %.3f°\n", status.TargetDeg)
			c.Printf("speed:    %.3f°/s\n", status.SpeedDegPerS)
			c.Printf("inverted: %t\n", status.Inverted)
			c.Printf("position: %.3f°\n", status.PositionDeg)
			if err := l.Err(); err != nil {
				c.Printf("error:    %v\n", err)
			}
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "protocol",
		Help: "list the firmware's commands",
		Func: func(c *ishell.Context) {
			for _, line := range commands.Describe() {
				c.Println(line)
			}
		},
	})

	return shell
}

func floatArg(c *ishell.Context) (float64, bool) {
	if len(c.Args) != 1 {
		c.Println("usage: " + c.Cmd.Help)
		return 0, false
	}
	v, err := strconv.ParseFloat(c.Args[0], 64)
	if err != nil {
		c.Printf("invalid number %q\n", c.Args[0])
		return 0, false
	}
	return v, true
}
