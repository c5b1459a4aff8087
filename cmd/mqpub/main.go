// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The mqpub command polls a battery monitor and publishes cell
// temperature readings to an MQTT broker.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"tinygo.org/x/bluetooth"

	"github.com/kortschak/cellmon/bms"
	"github.com/kortschak/cellmon/internal/forkbeard"
)

type reading struct {
	Address     string    `json:"address"`
	Temperature float64   `json:"temperature"`
	Time        time.Time `json:"time"`
}

func main() {
	addr := flag.String("addr", "", "monitor bluetooth address")
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker address")
	topic := flag.String("topic", "cellmon/readings", "publication topic")
	clientid := flag.String("clientid", "", "MQTT client ID (default cellmon-<random>)")
	interval := flag.Duration("interval", 30*time.Second, "polling interval")
	timeout := flag.Duration("timeout", 10*time.Second, "poll response timeout")
	mqdebug := flag.Bool("mqdebug", false, "MQ debugging output")
	flag.Parse()
	if *addr == "" {
		flag.Usage()
		os.Exit(2)
	}
	var macAddr bluetooth.Address
	err := macAddr.UnmarshalText([]byte(*addr))
	if err != nil {
		flag.Usage()
		os.Exit(2)
	}
	if *clientid == "" {
		*clientid = "cellmon-" + uuid.NewString()[:8]
	}

	if *mqdebug {
		mqtt.DEBUG = log.New(os.Stderr, "", 0)
	}
	mqtt.ERROR = log.New(os.Stderr, "", 0)
	opts := mqtt.NewClientOptions().AddBroker(*broker).SetClientID(*clientid)
	opts.SetKeepAlive(2 * time.Second)
	opts.SetPingTimeout(time.Second)
	mq := mqtt.NewClient(opts)
	if token := mq.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("failed to connect to broker: %v", token.Error())
	}
	defer mq.Disconnect(250)

	adapter := bluetooth.DefaultAdapter
	err = adapter.Enable()
	if err != nil {
		fmt.Printf("failed to enable bluetooth: %v", err)
		os.Exit(1)
	}
	fmt.Println("scanning...")
	dev, err := forkbeard.Connect(adapter, macAddr)
	if err != nil {
		log.Fatal(err)
	}
	m, err := bms.NewMonitor(&dev)
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()
	log.Printf("connected to %s", macAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	tick := time.NewTicker(*interval)
	defer tick.Stop()
	for {
		poll, cancel := context.WithTimeout(ctx, *timeout)
		r, err := m.Poll(poll)
		cancel()
		switch {
		case ctx.Err() != nil:
			return
		case err != nil:
			log.Printf("failed to read cell info: %v", err)
		default:
			msg, err := json.Marshal(reading{
				Address:     macAddr.String(),
				Temperature: r.Temperature,
				Time:        time.Now(),
			})
			if err != nil {
				log.Printf("failed to marshal reading: %v", err)
				break
			}
			token := mq.Publish(*topic, 0, false, msg)
			token.Wait()
			if token.Error() != nil {
				log.Printf("failed to publish reading: %v", token.Error())
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}
