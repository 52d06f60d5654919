// excluderegion filters a G-code stream, suppressing print moves inside
// configured bed regions while exclusion is active. Arcs are reduced to
// linear segments so every exclusion decision sees straight moves, and
// the position model tracks units, homing, coordinate offsets and home
// offsets across the whole stream.
//
// Usage:
//
//	excluderegion [options] [input.gcode]
//
// Options:
//
//	-config string    Filter configuration file
//	-output string    Output file (default: stdout)
//	-device string    Serial device to send filtered commands to
//	-baud int         Serial baud rate (default 115200)
//	-listen string    Monitor HTTP/WebSocket listen address
//	-at-command string At-command name controlling exclusion (default "ExcludeRegion")
//	-trace            Enable debug tracing
//
// Examples:
//
//	# Filter a file to stdout
//	excluderegion -config filter.cfg job.gcode > filtered.gcode
//
//	# Stream stdin to a printer
//	cat job.gcode | excluderegion -config filter.cfg -device /dev/ttyUSB0
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"excluderegion-go/pkg/config"
	"excluderegion-go/pkg/exclude"
	"excluderegion-go/pkg/gcode"
	"excluderegion-go/pkg/log"
	"excluderegion-go/pkg/monitor"
	"excluderegion-go/pkg/serial"
)

func main() {
	configFile := flag.String("config", "", "Filter configuration file")
	outputFile := flag.String("output", "", "Output file (default: stdout)")
	device := flag.String("device", "", "Serial device to send filtered commands to")
	baud := flag.Int("baud", 0, "Serial baud rate")
	listen := flag.String("listen", "", "Monitor HTTP/WebSocket listen address")
	atCommand := flag.String("at-command", "", "At-command name controlling exclusion")
	trace := flag.Bool("trace", false, "Enable debug tracing")
	flag.Parse()

	logger := log.New("excluderegion")
	logger.SetWriter(os.Stderr)
	log.ConfigureFromEnv(logger)

	settings := config.DefaultSettings()
	if *configFile != "" {
		var err error
		settings, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *device != "" {
		settings.SerialDevice = *device
	}
	if *baud != 0 {
		settings.BaudRate = *baud
	}
	if *listen != "" {
		settings.ListenAddr = *listen
	}
	if *atCommand != "" {
		settings.AtCommand = *atCommand
	}

	logger.SetLevel(log.ParseLevel(settings.LogLevel))
	if *trace {
		logger.SetLevel(log.DEBUG)
	}

	if err := run(settings, *outputFile, flag.Arg(0), logger); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run(settings *config.Settings, outputFile, inputFile string, logger *log.Logger) error {
	input := io.Reader(os.Stdin)
	if inputFile != "" && inputFile != "-" {
		f, err := os.Open(inputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		input = f
	}

	sender, cleanup, err := newSender(settings, outputFile, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	state := exclude.New(logger)
	for _, region := range settings.Regions {
		state.AddRegion(region)
	}
	state.RegisterAtCommand(settings.AtCommand, exclude.AtCommandAction{
		Command:   settings.AtCommand,
		Parameter: "enable",
		Do:        gcode.ActionEnableExclusion,
	})
	state.RegisterAtCommand(settings.AtCommand, exclude.AtCommandAction{
		Command:   settings.AtCommand,
		Parameter: "disable",
		Do:        gcode.ActionDisableExclusion,
	})

	handlers := gcode.NewHandlers(state, logger)
	handlers.SetArcResolution(settings.ArcResolution)

	if settings.ListenAddr != "" {
		srv := monitor.New(settings.ListenAddr, state, logger)
		if err := srv.Start(); err != nil {
			return err
		}
		defer srv.Stop()
	}

	return filterStream(input, sender, handlers, logger)
}

// filterStream runs every input line through the interpreter and
// forwards the surviving commands to the sender. Blank lines and pure
// comments pass through untouched so the output remains a faithful
// G-code file.
func filterStream(input io.Reader, sender gcode.Sender, handlers *gcode.Handlers, logger *log.Logger) error {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		raw := scanner.Text()
		cmd := gcode.StripComment(raw)
		if cmd == "" {
			sender.SendCommand(raw)
			continue
		}

		if strings.HasPrefix(cmd, "@") {
			name, parameters := splitAtCommand(cmd)
			handlers.HandleAtCommand(sender, name, parameters)
			continue
		}

		code, subcode := gcode.SplitCode(cmd)
		result, err := handlers.HandleGcode(cmd, code, subcode)
		if err != nil {
			logger.Error("dropping command %q: %v", cmd, err)
			continue
		}
		switch {
		case result.IsPass():
			sender.SendCommand(raw)
		case result.Suppressed():
			// dropped
		default:
			for _, replacement := range result.Commands() {
				sender.SendCommand(replacement)
			}
		}
	}
	return scanner.Err()
}

// splitAtCommand splits "@Name params" into the command name without the
// marker and its parameter string.
func splitAtCommand(line string) (name, parameters string) {
	name = line[1:]
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		parameters = strings.TrimSpace(name[i+1:])
		name = name[:i]
	}
	return name, parameters
}

func newSender(settings *config.Settings, outputFile string, logger *log.Logger) (gcode.Sender, func(), error) {
	if settings.SerialDevice != "" {
		cfg := serial.DefaultConfig()
		cfg.Device = settings.SerialDevice
		cfg.BaudRate = settings.BaudRate
		port, err := serial.Open(cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("sending to %s at %d baud", port.Device(), cfg.BaudRate)
		return &serialSender{port: port, logger: logger}, func() { port.Close() }, nil
	}

	out := io.Writer(os.Stdout)
	cleanup := func() {}
	if outputFile != "" && outputFile != "-" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, nil, err
		}
		out = f
		cleanup = func() { f.Close() }
	}
	w := bufio.NewWriter(out)
	return &writerSender{w: w, logger: logger}, func() { w.Flush(); cleanup() }, nil
}

// writerSender appends commands to an output stream.
type writerSender struct {
	w      *bufio.Writer
	logger *log.Logger
}

func (s *writerSender) SendCommand(cmd string) {
	if _, err := s.w.WriteString(cmd + "\n"); err != nil {
		s.logger.Error("write output: %v", err)
	}
}

// serialSender writes commands to the printer port.
type serialSender struct {
	port   *serial.Port
	logger *log.Logger
}

func (s *serialSender) SendCommand(cmd string) {
	if err := s.port.WriteCommand(cmd); err != nil {
		s.logger.Error("write serial: %v", err)
	}
}
