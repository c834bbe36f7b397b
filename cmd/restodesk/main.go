package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/akhaled-dev/restodesk/internal/config"
	"github.com/akhaled-dev/restodesk/internal/console"
	"github.com/akhaled-dev/restodesk/internal/flash"
	"github.com/akhaled-dev/restodesk/internal/kvstore"
	"github.com/akhaled-dev/restodesk/internal/logger"
	"github.com/akhaled-dev/restodesk/internal/rpc"
	"github.com/akhaled-dev/restodesk/internal/service"
	"github.com/akhaled-dev/restodesk/internal/session"
	"go.uber.org/zap"
)

var (
	version   string
	buildDate string
)

// main wires the durable store, the gateway and the session manager, then
// hands control to the interactive shell.
func main() {
	showVer := flag.Bool("version", false, "show build version and date")
	options := config.Parse()

	if *showVer {
		fmt.Printf("restodesk\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	l := logger.New()
	if err := l.Init("Info"); err != nil {
		log.Fatal(err)
	}
	defer l.Log.Sync()

	durable := kvstore.NewFileStore(options.StatePath)
	sessionScope := kvstore.NewMemStore()

	var caller rpc.Caller
	if options.DatabaseDSN != "" {
		db, err := rpc.OpenPostgres(options.DatabaseDSN)
		if err != nil {
			l.Log.Fatal("connect to database", zap.Error(err))
		}
		defer db.Close()
		caller = rpc.NewPostgresGateway(db, l.Log)
		l.Log.Info("using direct database gateway")
	} else {
		caller = rpc.NewHTTPGateway(options.BackendURL, options.APIKey, nil, l.Log)
		l.Log.Info("using HTTP gateway", zap.String("base_url", options.BackendURL))
	}

	timeout := time.Duration(options.SessionTimeoutMinutes) * time.Minute
	sess := session.NewManager(durable, caller, nil, l.Log, timeout)
	fl := flash.New(sessionScope)

	svc := console.Services{
		Users:           service.NewUsers(caller),
		Branches:        service.NewBranches(caller),
		Shifts:          service.NewShifts(caller),
		AttendanceTypes: service.NewAttendanceTypes(caller),
		Attendance:      service.NewAttendance(caller),
		Payroll:         service.NewPayroll(caller),
		RequestStatuses: service.NewRequestStatuses(caller),
		Products:        service.NewProducts(caller),
		InventoryItems:  service.NewInventoryItems(caller),
		BranchInventory: service.NewBranchInventory(caller),
		Dashboard:       service.NewDashboard(caller),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	console.New(sess, fl, durable, svc, l.Log, os.Stdin, os.Stdout).Run(ctx)
}
