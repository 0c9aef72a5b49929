//go:build tinygo

package main

import (
	"machine"

	"github.com/luckyfish-tu/camservo"
	"github.com/luckyfish-tu/camservo/commands"
	"github.com/luckyfish-tu/camservo/controller"
	"github.com/luckyfish-tu/camservo/firmware/device"
)

func main() {
	servoCfg := device.ServoConfig{
		PWM:        machine.PWM3,
		Pin:        machine.GP22,
		PulseScale: 1,
	}

	pwm, err := device.NewServoPWM(servoCfg)
	if err != nil {
		panic(err)
	}

	serial, err := device.NewUART(device.UARTConfig{BaudRate: 115200})
	if err != nil {
		panic(err)
	}

	_, _ = serial.Write([]byte(commands.VersionAnnouncement()))

	var caps camservo.Capabilities
	c := controller.New(pwm, serial, controller.NewSystemClock())
	c.Activate(&caps)

	for {
		c.Update(poll(serial))
	}
}

// poll returns the next command, or nil when nothing usable has arrived
func poll(serial *device.UART) commands.Command {
	cmd, err := commands.Next(serial)
	if err != nil {
		println("error:", err.Error())
	}
	return cmd
}
