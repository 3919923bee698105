package config

type WorkerKeyStruct struct {
	ReplenishQueue string
}

var WorkerKey = &WorkerKeyStruct{
	ReplenishQueue: "replenish_queue",
}
