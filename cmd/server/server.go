package main

import (
	"net/http"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/robogrid/server"
)

type Server struct {
	router     *way.Router
	GameServer *server.GameServer
}

func main() {
	settings, err := server.LoadSettings()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	layout, err := settings.LoadLayout()
	if err != nil {
		log.Fatalf("layout: %v", err)
	}
	log.Infof("board %dx%d, %d start spaces, %d walls",
		layout.Width, layout.Height, len(layout.Starts), layout.Walls.Len())

	Server := Server{
		GameServer: server.NewGameServer(settings, layout),
	}
	go Server.GameServer.Loop()
	Server.routes()
	log.Printf("listening on port %s", settings.Port)
	log.Fatalln(http.ListenAndServe(":"+settings.Port, Server.router))
}
