// qregcli sends one command to a qregd server and prints the reply.
//
// Arguments after the address are typed by shape: integers become int32,
// decimal numbers become float32, anything else is sent as a string.
//
//	qregcli -server 127.0.0.1:7700 /gk/init 3
//	qregcli /gk/gate X 1
//	qregcli /gk/measure 0 1 2
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/qoslab/qregctl/internal/config"
	"github.com/qoslab/qregctl/internal/protocol/osc"
)

func main() {
	serverAddr := flag.String("server", "", "qregd server address")
	configPath := flag.String("config", "", "path to qregcli config.toml")
	timeout := flag.Duration("timeout", 0, "reply wait timeout")
	initConfig := flag.String("init-config", "", "write a starter config.toml to this path and exit")
	flag.Parse()

	if *initConfig != "" {
		if err := config.WriteTemplate(*initConfig, "client", false); err != nil {
			fmt.Fprintf(os.Stderr, "qregcli: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*serverAddr, *configPath, *timeout, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "qregcli: %v\n", err)
		os.Exit(1)
	}
}

func run(serverAddr, configPath string, timeout time.Duration, args []string) error {
	cfg := config.ClientConfig{ServerAddr: "127.0.0.1:7700", TimeoutSec: 5}
	if configPath != "" {
		loaded, err := config.LoadClientConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if serverAddr != "" {
		cfg.ServerAddr = serverAddr
	}
	if timeout <= 0 {
		timeout = time.Duration(cfg.TimeoutSec) * time.Second
	}

	if len(args) == 0 || !strings.HasPrefix(args[0], "/") {
		return fmt.Errorf("usage: qregcli [flags] /backend/op [args...]")
	}

	msg := osc.Message{Addr: args[0]}
	for _, raw := range args[1:] {
		msg.Args = append(msg.Args, parseArg(raw))
	}
	packet, err := osc.Encode(msg, osc.DefaultLimits())
	if err != nil {
		return err
	}

	dest, err := net.ResolveUDPAddr("udp", cfg.ServerAddr)
	if err != nil {
		return fmt.Errorf("resolve server %q: %w", cfg.ServerAddr, err)
	}
	conn, err := net.DialUDP("udp", nil, dest)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write(packet); err != nil {
		return err
	}

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	buf := make([]byte, osc.DefaultLimits().MaxPacketBytes)
	n, err := conn.Read(buf)
	if err != nil {
		return fmt.Errorf("no reply within %s: %w", timeout, err)
	}
	reply, err := osc.Decode(buf[:n], osc.DefaultLimits())
	if err != nil {
		return fmt.Errorf("undecodable reply: %w", err)
	}

	fmt.Println(formatMessage(reply))
	return nil
}

func parseArg(raw string) osc.Arg {
	if v, err := strconv.ParseInt(raw, 10, 32); err == nil {
		return osc.Int32(int32(v))
	}
	if strings.ContainsAny(raw, ".eE") {
		if v, err := strconv.ParseFloat(raw, 32); err == nil {
			return osc.Float32(float32(v))
		}
	}
	return osc.String(raw)
}

func formatMessage(msg osc.Message) string {
	var sb strings.Builder
	sb.WriteString(msg.Addr)
	for _, arg := range msg.Args {
		sb.WriteByte(' ')
		switch arg.Type {
		case osc.TypeInt32:
			v, _ := arg.Int32()
			sb.WriteString(strconv.FormatInt(int64(v), 10))
		case osc.TypeFloat32:
			v, _ := arg.Float32()
			sb.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
		case osc.TypeString:
			v, _ := arg.String()
			sb.WriteString(strconv.Quote(v))
		case osc.TypeBlob:
			v, _ := arg.Blob()
			sb.WriteString(fmt.Sprintf("%#x", v))
		}
	}
	return sb.String()
}
