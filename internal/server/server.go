package server

// Server объединяет HTTP сервера отдельных сущностей.
type Server struct {
	PoolServer
	RainfallServer
	SettingsServer
}

func NewServer(
	poolServer PoolServer,
	rainfallServer RainfallServer,
	settingsServer SettingsServer,
) Server {
	return Server{
		PoolServer:     poolServer,
		RainfallServer: rainfallServer,
		SettingsServer: settingsServer,
	}
}
