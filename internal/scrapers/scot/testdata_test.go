package scot

const boiGordoPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Boi gordo</title></head>
<body>
	<h3>Boi China</h3>
	<table cellpadding="0" cellspacing="0" width="660px">
		<tr class="conteudo"><td>UF</td><td>Bruto</td><td>Livre</td></tr>
		<tr class="conteudo"><td>SP</td><td>325,00</td><td>320,50</td></tr>
		<tr class="conteudo"><td>MT</td><td>305,00</td><td>300,75</td></tr>
	</table>

	<h3>Boi gordo</h3>
	<table border="0" cellpadding="0" cellspacing="0" width="660" style="margin-top: 10px">
		<tr class="titulos"><td>UF</td><td>à vista</td><td>30 dias</td></tr>
		<tr class="conteudo">
			<td>SP</td><td>320,00</td><td>323,00</td><td><img src="/img/alta.png"></td>
			<td>2,00</td><td>315,84</td><td>318,80</td><td>319,36</td><td></td><td>322,35</td><td></td>
		</tr>
		<tr class="conteudo">
			<td>GO</td><td>1.305,00</td><td>1.308,50</td><td><img src="/img/estavel.png"></td>
			<td>-5,00</td><td>1.288,04</td><td>1.291,50</td><td>1.304,35</td><td></td><td>1.307,84</td><td></td>
		</tr>
	</table>
</body>
</html>`

const indicadoresPage = `<html><body>
	<table>
		<tr><th>Praça</th><th>Hoje</th><th>Ontem</th><th>Variação</th></tr>
		<tr class="conteudo"><td>MG</td><td>350,00</td><td>345,00</td><td>5,00<img src="up.png"></td></tr>
		<tr class="conteudo"><td>Triângulo Mineiro</td><td>340,00</td><td>341,00</td><td>-1,00 <img src="down.png"></td></tr>
	</table>
</body></html>`

const vacaGordaPage = `<html><body>
	<table>
		<tr><th>UF</th><th>à vista</th><th>30 dias</th></tr>
		<tr>
			<td>MS</td><td>290,00</td><td>293,00</td><td><img src="/img/estavel.png"></td>
			<td>286,23</td><td>289,19</td><td>289,42</td><td></td><td>292,41</td><td></td>
		</tr>
	</table>
</body></html>`

const novilhaPage = `<html><body>
	<table>
		<tr>
			<td>PR</td><td>300,00</td><td>n/d</td><td><img src="/img/baixa.png"></td>
			<td>296,10</td><td>299,20</td><td>299,40</td><td></td><td>302,50</td><td></td>
		</tr>
	</table>
</body></html>`
