// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The exporter command serves cell temperature readings from a
// battery monitor as Prometheus metrics.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"tinygo.org/x/bluetooth"

	"github.com/kortschak/cellmon/bms"
	"github.com/kortschak/cellmon/internal/forkbeard"
)

func main() {
	addr := flag.String("addr", "", "monitor bluetooth address")
	listen := flag.String("listen", ":9102", "metrics listen address")
	interval := flag.Duration("interval", 30*time.Second, "cell info request interval")
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

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	temperature := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "cellmon",
		Name:      "temperature_celsius",
		Help:      "Last decoded cell temperature.",
	}, []string{"addr"})
	requests := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cellmon",
		Name:      "requests_total",
		Help:      "Cell info requests written to the device.",
	})
	readings := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cellmon",
		Name:      "readings_total",
		Help:      "Notifications decoded into readings.",
	})
	short := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cellmon",
		Name:      "short_notifications_total",
		Help:      "Notifications too short to decode, including command acknowledgements.",
	})
	reg.MustRegister(temperature, requests, readings, short)

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

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		m.Close()
		os.Exit(0)
	}()

	m.SetHandler(func(buf []byte) {
		var r bms.Reading
		err := r.UnmarshalBinary(buf)
		if err != nil {
			if errors.Is(err, bms.ErrShortPayload) {
				short.Inc()
			}
			return
		}
		readings.Inc()
		temperature.WithLabelValues(macAddr.String()).Set(r.Temperature)
	})
	go func() {
		tick := time.NewTicker(*interval)
		defer tick.Stop()
		for {
			requests.Inc()
			err := m.Request(bms.CellInfo)
			if err != nil {
				log.Printf("failed to request cell info: %v", err)
			}
			<-tick.C
		}
	}()

	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	log.Printf("serving metrics at %s/metrics", *listen)
	log.Fatal(http.ListenAndServe(*listen, nil))
}
