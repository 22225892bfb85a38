package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "RaffleHub"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Flags:       []cli.Flag{},
			Category:    "Api",
			Description: `Serves every client-facing endpoint of the raffle marketplace.`,
		},
		{
			Action:      server.startCron,
			Name:        "cron",
			Usage:       "Start service cron",
			Flags:       []cli.Flag{},
			Category:    "Worker",
			Description: `Runs the lifecycle scheduler that turns due announcements into live raffles.`,
		},
		{
			Action:      server.startSubscriber,
			Name:        "subscriber",
			Usage:       "Start service subscriber",
			Flags:       []cli.Flag{},
			Category:    "Worker",
			Description: `Tails the raffle event topic and logs every lifecycle event.`,
		},
	}

	s.app = app
}
