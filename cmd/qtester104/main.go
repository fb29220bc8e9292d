// Copyright 2025 Ricardo L. Olsen. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Command qtester104 polls IEC 60870-5-104 controlled stations described in
// a YAML file, logging every indication and optionally recording the
// traffic to a pcap capture.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/riclolsen/qtester104/asdu"
	"github.com/riclolsen/qtester104/cs104"
	"github.com/riclolsen/qtester104/trace"
)

var version = "dev"

func main() {
	var (
		configPath string
		tracePath  string
		quiet      bool
	)

	root := &cobra.Command{
		Use:   "qtester104",
		Short: "IEC 60870-5-104 protocol tester (controlling station)",
		Long: "qtester104 connects to the controlled stations listed in the config\n" +
			"file, enables data transfer, runs periodic general interrogations and\n" +
			"logs every indication.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			var rec *trace.Recorder
			if tracePath != "" {
				rec, err = trace.NewRecorder(tracePath, 0)
				if err != nil {
					return err
				}
				defer rec.Close()
			}
			return run(cfg, rec, !quiet)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "qtester104.yaml", "RTU list config file")
	root.Flags().StringVarP(&tracePath, "trace", "t", "", "record traffic to a pcap file")
	root.Flags().BoolVarP(&quiet, "quiet", "q", false, "disable protocol logging")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("qtester104", version)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg *FileConfig, rec *trace.Recorder, logMode bool) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	done := make(chan struct{})
	started := 0
	for i := range cfg.RTUs {
		rtu := &cfg.RTUs[i]
		if !rtu.IsEnabled() {
			continue
		}
		tr, err := newTCPTransport(rtu)
		if err != nil {
			return fmt.Errorf("%s: %w", rtu.Name, err)
		}

		opt := cs104.NewOption().SetConfig(cs104.Config{
			SecondaryIP:       rtu.IP,
			SecondaryIPBackup: rtu.IPBackup,
			Port:              rtu.Port,
			SecondaryAddr:     rtu.SecondaryAddress,
			PrimaryAddr:       rtu.PrimaryAddress,
			GIPeriod:          rtu.GIPeriod,
		})
		client := cs104.NewClient(&printHandler{name: rtu.Name}, tr, opt)
		client.LogMode(logMode)
		if rtu.NoSeqCheck {
			client.DisableSequenceOrderCheck()
		}
		if rec != nil {
			client.SetFrameRecorder(rec)
		}

		wg.Add(1)
		go runSession(client, tr, done, &wg)
		started++
		// stagger session starts
		time.Sleep(500 * time.Millisecond)
	}
	if started == 0 {
		return fmt.Errorf("no enabled rtus in config")
	}

	<-stop
	log.Println("shutting down")
	close(done)
	wg.Wait()
	return nil
}

// runSession is the event loop of one RTU session. Every engine entry point
// is invoked from this goroutine only, as the engine's cooperative model
// requires.
func runSession(client *cs104.Client, tr *tcpTransport, done <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			client.OnTimerSecond()
		case <-tr.Ready:
			client.OnPacketReady()
		case <-tr.Lost:
			client.OnDisconnectTCP()
		case <-done:
			client.DisableConnect()
			return
		}
	}
}

// printHandler logs every upcall; the protocol engine already logs the
// decoded traffic, so this only marks the session level events.
type printHandler struct {
	name string
}

func (sf *printHandler) DataIndication(objs []asdu.InfoObject) {
	log.Printf("%s: %d objects", sf.name, len(objs))
}

func (sf *printHandler) CommandActRespIndication(obj *asdu.InfoObject) {
	log.Printf("%s: command response type %s address %d cause %s", sf.name, obj.Type, obj.Address, obj.Cause)
}

func (sf *printHandler) InterrogationActConfIndication() {
	log.Printf("%s: interrogation confirmed", sf.name)
}

func (sf *printHandler) InterrogationActTermIndication(objectCount int) {
	log.Printf("%s: interrogation terminated, %d objects", sf.name, objectCount)
}

func (sf *printHandler) ConnectIndication() {
	log.Printf("%s: connected", sf.name)
}

func (sf *printHandler) DisconnectIndication() {
	log.Printf("%s: disconnected", sf.name)
}
