// Firmware simulator: emulates the Arduino end of the wheel command protocol
// over a socat virtual serial pair. Use this for local testing when you don't
// have real robot hardware. Point the dashboard or CLI at the left link.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"MecanumDash/internal/device"
	"MecanumDash/internal/parser"
	"MecanumDash/internal/util"
)

func main() {
	util.SetupLogger()

	left := flag.String("left", "/tmp/ttyMECANUM0", "controller-side PTY link")
	right := flag.String("right", "/tmp/ttyMECANUM1", "firmware-side PTY link")
	baud := flag.Int("baud", 9600, "baud rate")
	flag.Parse()

	mgr := util.NewSocatManager()
	if err := mgr.CreatePair(*left, *right); err != nil {
		log.Fatalf("create virtual serial pair: %v", err)
	}
	defer mgr.Cleanup()

	// socat needs a moment to create the links
	time.Sleep(500 * time.Millisecond)

	dev, err := device.NewSerialDevice(*right, *baud)
	if err != nil {
		log.Fatalf("open firmware side: %v", err)
	}
	defer func() {
		if cerr := dev.Close(); cerr != nil {
			log.Printf("warning: close serial err: %v", cerr)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	log.Printf("[sim] firmware listening on %s (controllers connect to %s)", *right, *left)
	_ = dev.WriteLine("MECANUM READY")

	go func() {
		for {
			line, err := dev.ReadLine(500 * time.Millisecond)
			if err != nil {
				continue
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			handleLine(line)
		}
	}()

	<-stop
	log.Println("[sim] stopping")
}

// handleLine decodes one wire command the way the firmware would and logs the
// resulting motor state.
func handleLine(line string) {
	if strings.HasPrefix(line, "TEST,") {
		t, err := parser.ParseTestCSV(line)
		if err != nil {
			log.Printf("[sim] bad TEST command %q: %v", line, err)
			return
		}
		log.Printf("[sim] motor %d at %d for %dms", t.Index, t.Speed, t.DurationMs)
		return
	}

	cmd, err := parser.ParseWheelCSV(line)
	if err != nil {
		log.Printf("[sim] bad command %q: %v", line, err)
		return
	}
	if cmd.IsStop() {
		log.Printf("[sim] STOP")
		return
	}
	log.Printf("[sim] FL=%d FR=%d RL=%d RR=%d", cmd.FrontLeft, cmd.FrontRight, cmd.RearLeft, cmd.RearRight)
}
