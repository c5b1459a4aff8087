// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The influx command polls a battery monitor and writes cell
// temperature readings to an InfluxDB database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	influx "github.com/influxdata/influxdb/client/v2"
	"tinygo.org/x/bluetooth"

	"github.com/kortschak/cellmon/bms"
	"github.com/kortschak/cellmon/internal/forkbeard"
)

func main() {
	addr := flag.String("addr", "", "monitor bluetooth address")
	interval := flag.Duration("interval", 30*time.Second, "polling interval")
	timeout := flag.Duration("timeout", 10*time.Second, "poll response timeout")
	infurl := flag.String("inf.url", "http://localhost:8086", "influxdb address")
	infuser := flag.String("inf.user", "", "influxdb user")
	infpass := flag.String("inf.pass", "", "influxdb password")
	infdb := flag.String("inf.db", "cellmon", "influxdb database name")
	measurement := flag.String("measurement", "temperature", "measurement name")
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

	hclient, err := influx.NewHTTPClient(influx.HTTPConfig{
		Addr:      *infurl,
		Username:  *infuser,
		Password:  *infpass,
		UserAgent: "cellmon-influx",
	})
	if err != nil {
		log.Fatalf("failed to create influxdb client: %v", err)
	}
	defer hclient.Close()
	latency, version, err := hclient.Ping(*timeout)
	if err != nil {
		log.Fatalf("failed to ping influxdb: %v", err)
	}
	log.Printf("took %v to reach influxdb %v", latency, version)
	if !finddb(hclient, *infdb) {
		log.Fatalf("database %q not present", *infdb)
	}

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
			err = write(hclient, *infdb, *measurement, macAddr.String(), r)
			if err != nil {
				log.Printf("failed to write reading: %v", err)
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}

func write(hclient influx.Client, db, measurement, addr string, r bms.Reading) error {
	bp, err := influx.NewBatchPoints(influx.BatchPointsConfig{
		Database:  db,
		Precision: "s",
	})
	if err != nil {
		return err
	}
	pt, err := influx.NewPoint(measurement,
		map[string]string{"addr": addr},
		map[string]interface{}{"celsius": r.Temperature},
		time.Now(),
	)
	if err != nil {
		return err
	}
	bp.AddPoint(pt)
	return hclient.Write(bp)
}

func finddb(hclient influx.Client, db string) bool {
	query := influx.NewQuery("SHOW DATABASES", "", "")
	result, err := hclient.Query(query)
	if err != nil || result.Error() != nil {
		return false
	}
	for _, qresult := range result.Results {
		for _, series := range qresult.Series {
			for _, row := range series.Values {
				if row[0] == db {
					return true
				}
			}
		}
	}
	return false
}
