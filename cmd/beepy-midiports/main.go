// Command beepy-midiports lists the MIDI output ports usable with beepy's
// -midi-port option.
package main

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register MIDI driver
)

func main() {
	defer midi.CloseDriver()

	outs := midi.GetOutPorts()
	if len(outs) == 0 {
		fmt.Println("No MIDI output ports found.")
		return
	}
	fmt.Println("MIDI output ports:")
	for i, p := range outs {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}
