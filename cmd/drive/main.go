// Interactive CLI controller for the mecanum robot. Reads single-word
// commands from stdin and translates them into serial wheel commands.
// Useful for bench testing without the dashboard.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"MecanumDash/internal/drive"
	"MecanumDash/internal/model"
	"MecanumDash/internal/util"
)

const usage = `Commands:
  w / s              - forward / backward
  a / d              - strafe left / strafe right
  q / e              - rotate left (CCW) / rotate right (CW)
  x                  - stop
  speed N            - set linear speed (1-255)
  turn N             - set turn speed (1-255)
  move VX VY OM U    - ramped move of U units in direction (VX,VY,OM)
  test IDX [SPD MS]  - run one motor (0=FL 1=FR 2=RL 3=RR)
  calib              - drive each motor individually in sequence
  estop / release    - engage / clear emergency stop
  status             - show connection state
  exit               - stop motors and quit`

func main() {
	util.SetupLogger()

	port := flag.String("port", "", "serial port (default from calibration file)")
	baud := flag.Int("baud", 0, "baud rate (default from calibration file)")
	calPath := flag.String("config", "mecanum_config.json", "calibration file")
	flag.Parse()

	cal, err := drive.LoadCalibration(*calPath)
	if err != nil {
		log.Fatalf("load calibration: %v", err)
	}

	session := drive.NewSession(cal, *calPath)
	if err := session.Connect(*port, *baud); err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer session.Disconnect()
	util.Info("connected to %s", session.Port())

	// Arduino resets on open; give the bootloader a moment.
	time.Sleep(2 * time.Second)

	// Ctrl+C stops the motors before exiting.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		session.EmergencyStop()
		session.Disconnect()
		os.Exit(0)
	}()

	speed := 150
	turn := 120

	fmt.Println(usage)
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			break
		}
		fields := strings.Fields(strings.ToLower(sc.Text()))
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "w":
			err = session.Send(model.MotionIntent{VX: speed})
		case "s":
			err = session.Send(model.MotionIntent{VX: -speed})
		case "a":
			err = session.Send(model.MotionIntent{VY: speed})
		case "d":
			err = session.Send(model.MotionIntent{VY: -speed})
		case "q":
			err = session.Send(model.MotionIntent{Omega: turn})
		case "e":
			err = session.Send(model.MotionIntent{Omega: -turn})
		case "x":
			err = session.Send(model.MotionIntent{})
		case "speed":
			speed = parseSpeed(fields, speed)
			fmt.Printf("linear speed = %d\n", speed)
		case "turn":
			turn = parseSpeed(fields, turn)
			fmt.Printf("turn speed = %d\n", turn)
		case "move":
			err = runMove(session, fields)
		case "test":
			err = runTest(session, fields)
		case "calib":
			err = runCalibration(session)
		case "estop":
			session.EmergencyStop()
		case "release":
			session.Release()
		case "status":
			fmt.Printf("%s (%s)\n", session.StatusString(), session.Port())
		case "exit", "quit":
			return
		case "help", "?":
			fmt.Println(usage)
		default:
			fmt.Printf("unknown command %q (try 'help')\n", fields[0])
		}

		if err != nil {
			util.Error("command failed: %v", err)
		}
	}
}

func parseSpeed(fields []string, cur int) int {
	if len(fields) < 2 {
		return cur
	}
	v, err := strconv.Atoi(fields[1])
	if err != nil || v < 1 || v > drive.MaxSpeed {
		fmt.Printf("speed must be 1-%d\n", drive.MaxSpeed)
		return cur
	}
	return v
}

// runMove starts a ramped move and waits for it to finish so the prompt
// behaves predictably. Ctrl+C still cancels through the signal handler.
func runMove(s *drive.Session, fields []string) error {
	if len(fields) != 5 {
		return fmt.Errorf("usage: move VX VY OMEGA UNITS")
	}
	vals := make([]int, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return fmt.Errorf("invalid number %q", fields[i+1])
		}
		vals[i] = v
	}
	done, err := s.Move(model.MoveRequest{VX: vals[0], VY: vals[1], Omega: vals[2], Units: vals[3]})
	if err != nil {
		return err
	}
	<-done
	fmt.Println("move complete")
	return nil
}

func runTest(s *drive.Session, fields []string) error {
	if len(fields) < 2 {
		return fmt.Errorf("usage: test IDX [SPEED DURATION_MS]")
	}
	idx, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("invalid motor index %q", fields[1])
	}
	req := model.TestRequest{Index: idx, Speed: 80, DurationMs: 500}
	if len(fields) >= 4 {
		if req.Speed, err = strconv.Atoi(fields[2]); err != nil {
			return fmt.Errorf("invalid speed %q", fields[2])
		}
		if req.DurationMs, err = strconv.Atoi(fields[3]); err != nil {
			return fmt.Errorf("invalid duration %q", fields[3])
		}
	}
	return s.TestMotor(req)
}

// runCalibration drives each motor individually so wiring and mapping can be
// verified wheel by wheel.
func runCalibration(s *drive.Session) error {
	fmt.Println("Starting calibration test...")
	for idx, name := range drive.WheelNames {
		fmt.Printf("  motor %d (%s)\n", idx, name)
		if err := s.TestMotor(model.TestRequest{Index: idx, Speed: 100, DurationMs: 700}); err != nil {
			return err
		}
		time.Sleep(1 * time.Second)
	}
	fmt.Println("Calibration test complete.")
	return nil
}
